package models

import (
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

// Odds groups the bookmaker markets shown in a report. Each market is
// independent: a missing handicap says nothing about 1X2.
type Odds struct {
	MatchWinner optional.Value[MatchWinnerOdds] `json:"match_winner"`
	OverUnder   optional.Value[OverUnderOdds]   `json:"over_under"`
	Handicap    optional.Value[HandicapOdds]    `json:"handicap"`
	UpdatedAt   optional.Value[time.Time]       `json:"updated_at"`
}

// MatchWinnerOdds is the 1X2 market.
type MatchWinnerOdds struct {
	Home optional.Value[float64] `json:"home"`
	Draw optional.Value[float64] `json:"draw"`
	Away optional.Value[float64] `json:"away"`
}

// OverUnderOdds is the total goals market for one line.
type OverUnderOdds struct {
	Line  string                  `json:"line"`
	Over  optional.Value[float64] `json:"over"`
	Under optional.Value[float64] `json:"under"`
}

// HandicapOdds is the handicap market for one line.
type HandicapOdds struct {
	Line string                  `json:"line"`
	Home optional.Value[float64] `json:"home"`
	Away optional.Value[float64] `json:"away"`
}
