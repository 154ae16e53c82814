package soccerdata

import (
	"fmt"
)

// UpstreamError is a failed call to the sports-data API: network error,
// timeout, non-2xx status or an undecodable payload.
type UpstreamError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "soccerdata " + e.Endpoint
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NotFoundError means the API answered but has no match with that id.
type NotFoundError struct {
	MatchID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("soccerdata: match %d not found", e.MatchID)
}
