package models

import (
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

// Match is the summary view of an upcoming fixture.
type Match struct {
	ID         int64     `json:"id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Kickoff    time.Time `json:"kickoff"`
	LeagueID   int       `json:"league_id"`
	LeagueName string    `json:"league_name"`
	Country    string    `json:"country"`
	Stage      string    `json:"stage"`
}

// LeagueGroup is a render-only bundle of matches from one league.
type LeagueGroup struct {
	LeagueID   int
	LeagueName string
	Country    string
	Matches    []Match
}

// Team identifies a club.
type Team struct {
	ID   optional.Value[int64] `json:"id"`
	Name string                `json:"name"`
}

// League identifies a competition.
type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Venue is the stadium a match is played at.
type Venue struct {
	Name string                 `json:"name"`
	City optional.Value[string] `json:"city"`
}

// Stage is the competition stage (regular season, group A, final, ...).
type Stage struct {
	Name   string               `json:"name"`
	Active optional.Value[bool] `json:"active"`
}

// Status is the match state as reported upstream: "pre-match", "live", "finished", ...
type Status struct {
	State  string                 `json:"state"`
	Minute optional.Value[int]    `json:"minute"`
	Winner optional.Value[string] `json:"winner"`
}

// ScoreLine is a home/away goal pair.
type ScoreLine struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Score is present only once a match has started.
type Score struct {
	FullTime  ScoreLine                 `json:"full_time"`
	HalfTime  optional.Value[ScoreLine] `json:"half_time"`
	ExtraTime optional.Value[ScoreLine] `json:"extra_time"`
	Penalties optional.Value[ScoreLine] `json:"penalties"`
}

// MatchDetail is the full data object behind a match report. Every field the
// upstream may omit is optional, including the ones a report cannot do without;
// the renderer decides which absences are fatal.
type MatchDetail struct {
	ID       optional.Value[int64]      `json:"id"`
	Home     optional.Value[Team]       `json:"home"`
	Away     optional.Value[Team]       `json:"away"`
	League   optional.Value[League]     `json:"league"`
	Kickoff  optional.Value[time.Time]  `json:"kickoff"`
	Country  optional.Value[string]     `json:"country"`
	Stage    optional.Value[Stage]      `json:"stage"`
	Venue    optional.Value[Venue]      `json:"venue"`
	Status   optional.Value[Status]     `json:"status"`
	Score    optional.Value[Score]      `json:"score"`
	Preview  optional.Value[Preview]    `json:"preview"`
	Standing optional.Value[Standing]   `json:"standing"`
	H2H      optional.Value[HeadToHead] `json:"h2h"`
	Odds     Odds                       `json:"odds"`
	Lineups  optional.Value[Lineups]    `json:"lineups"`
	Events   []MatchEvent               `json:"events"`
}
