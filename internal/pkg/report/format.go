package report

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const kickoffLayout = "2006-01-02 15:04 MST"

var titleCaser = cases.Title(language.English)

// formatKickoff renders t in loc. A zero time is shown as TBD.
func formatKickoff(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "TBD"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(kickoffLayout)
}

// formatOdd prints a price with at most two decimals: 1.85, 3.6, 2.
func formatOdd(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatTemp(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// humanize turns "penalty_goal" into "Penalty goal".
func humanize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// country title-cases lower-case country names as sent upstream ("england").
func country(name string) string {
	return titleCaser.String(name)
}

// writer accumulates report lines.
type writer struct {
	lines []string
}

func (w *writer) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *writer) blank() {
	if len(w.lines) > 0 && w.lines[len(w.lines)-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// section appends the lines of a section after a blank separator. Empty
// sections leave no trace.
func (w *writer) section(lines []string) {
	if len(lines) == 0 {
		return
	}
	w.blank()
	w.lines = append(w.lines, lines...)
}

func (w *writer) String() string {
	return strings.Join(w.lines, "\n")
}
