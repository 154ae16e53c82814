package report

import "fmt"

// MalformedDataError means a match detail lacks a field every report needs.
type MalformedDataError struct {
	MatchID int64
	Field   string
}

func (e *MalformedDataError) Error() string {
	if e.MatchID != 0 {
		return fmt.Sprintf("report: match %d is missing %s", e.MatchID, e.Field)
	}
	return fmt.Sprintf("report: match is missing %s", e.Field)
}
