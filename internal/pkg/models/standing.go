package models

import "github.com/Vodeneev/matchbot/internal/pkg/optional"

// StandingRow is one team's line in the league table.
type StandingRow struct {
	Position     int `json:"position"`
	Points       int `json:"points"`
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// Standing is the table snapshot for the two teams of a match.
type Standing struct {
	Home optional.Value[StandingRow] `json:"home"`
	Away optional.Value[StandingRow] `json:"away"`
}

// HeadToHead is the all-time record between the two teams, seen from the home side.
type HeadToHead struct {
	Played    int `json:"played"`
	HomeWins  int `json:"home_wins"`
	AwayWins  int `json:"away_wins"`
	Draws     int `json:"draws"`
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

// Preview carries the structured signals of an upstream match preview.
// The narrative text of the preview is never stored.
type Preview struct {
	Weather    optional.Value[Weather]    `json:"weather"`
	Excitement optional.Value[float64]    `json:"excitement"`
	Prediction optional.Value[Prediction] `json:"prediction"`
}

// Weather at kickoff.
type Weather struct {
	TempC       float64 `json:"temp_c"`
	Description string  `json:"description"`
}

// Prediction is the upstream's pick for a market, e.g. type "match_winner", choice "home".
type Prediction struct {
	Type   string                 `json:"type"`
	Choice string                 `json:"choice"`
	Line   optional.Value[string] `json:"line"`
}
