package models

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

// EventKind classifies a match event.
type EventKind string

const (
	EventGoal         EventKind = "goal"
	EventCard         EventKind = "card"
	EventSubstitution EventKind = "substitution"
	EventOther        EventKind = "other"
)

// Side is the team an event belongs to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Minute is an event clock reading such as "45+2". Base is 45, Added is 2.
type Minute struct {
	Raw   string
	Base  int
	Added int
	Valid bool
}

// ParseMinute parses upstream minute strings: "17", "45+2", "90'".
func ParseMinute(raw string) Minute {
	m := Minute{Raw: strings.TrimSpace(raw)}
	s := strings.TrimSuffix(m.Raw, "'")
	base, added, hasAdded := strings.Cut(s, "+")
	b, err := strconv.Atoi(strings.TrimSpace(base))
	if err != nil || b < 0 {
		return m
	}
	m.Base = b
	if hasAdded {
		a, err := strconv.Atoi(strings.TrimSpace(added))
		if err != nil || a < 0 {
			return m
		}
		m.Added = a
	}
	m.Valid = true
	return m
}

// String renders the minute as it appears on a match clock.
func (m Minute) String() string {
	if !m.Valid {
		return m.Raw
	}
	if m.Added > 0 {
		return strconv.Itoa(m.Base) + "+" + strconv.Itoa(m.Added)
	}
	return strconv.Itoa(m.Base)
}

// Before orders minutes chronologically. Unparseable minutes sort last.
func (m Minute) Before(o Minute) bool {
	if m.Valid != o.Valid {
		return m.Valid
	}
	if m.Base != o.Base {
		return m.Base < o.Base
	}
	return m.Added < o.Added
}

// MatchEvent is a goal, card, substitution or other incident.
type MatchEvent struct {
	Minute Minute
	Kind   EventKind
	// Type is the upstream event type, e.g. "penalty_goal", "red_card".
	Type   string
	Side   Side
	Player optional.Value[string]
	Assist optional.Value[string]
	// CardColor is "yellow", "red" or "second yellow" for cards.
	CardColor string
	PlayerIn  optional.Value[string]
	PlayerOut optional.Value[string]
}

// SortEvents returns events ordered by minute, keeping input order for ties.
func SortEvents(events []MatchEvent) []MatchEvent {
	out := make([]MatchEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minute.Before(out[j].Minute)
	})
	return out
}
