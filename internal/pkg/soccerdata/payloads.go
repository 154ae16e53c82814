package soccerdata

import (
	stdjson "encoding/json"
	"strconv"
	"strings"

	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

// flexString accepts either a JSON string or a JSON number. The API is not
// consistent about minutes, handicap lines and totals.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := stdjson.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n stdjson.Number
	if err := stdjson.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(formatNumber(string(n)))
	return nil
}

func formatNumber(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type idName struct {
	ID   optional.Value[int64]  `json:"id"`
	Name optional.Value[string] `json:"name"`
}

// match-previews-upcoming/

type upcomingResponse struct {
	Results []stdjson.RawMessage `json:"results"`
}

type leagueBlock struct {
	LeagueID      optional.Value[int]    `json:"league_id"`
	LeagueName    optional.Value[string] `json:"league_name"`
	Country       optional.Value[idName] `json:"country"`
	Stage         optional.Value[idName] `json:"stage"`
	MatchPreviews []stdjson.RawMessage   `json:"match_previews"`
}

type previewItem struct {
	ID    optional.Value[int64]  `json:"id"`
	Date  optional.Value[string] `json:"date"`
	Time  optional.Value[string] `json:"time"`
	Stage optional.Value[idName] `json:"stage"`
	Teams struct {
		Home optional.Value[idName] `json:"home"`
		Away optional.Value[idName] `json:"away"`
	} `json:"teams"`
}

// match/

type matchPayload struct {
	ID           optional.Value[int64]          `json:"id"`
	Date         optional.Value[string]         `json:"date"`
	Time         optional.Value[string]         `json:"time"`
	Country      optional.Value[idName]         `json:"country"`
	League       optional.Value[idName]         `json:"league"`
	Stage        optional.Value[stagePayload]   `json:"stage"`
	Teams        optional.Value[teamsPayload]   `json:"teams"`
	Stadium      optional.Value[stadiumPayload] `json:"stadium"`
	Status       optional.Value[string]         `json:"status"`
	Minute       optional.Value[flexString]     `json:"minute"`
	Winner       optional.Value[string]         `json:"winner"`
	HasExtraTime optional.Value[bool]           `json:"has_extra_time"`
	HasPenalties optional.Value[bool]           `json:"has_penalties"`
	Goals        optional.Value[goalsPayload]   `json:"goals"`
	Events       []eventPayload                 `json:"events"`
	Odds         optional.Value[oddsPayload]    `json:"odds"`
	Lineups      optional.Value[lineupsPayload] `json:"lineups"`
	MatchPreview optional.Value[previewFlag]    `json:"match_preview"`
}

type stagePayload struct {
	ID       optional.Value[int64]  `json:"id"`
	Name     optional.Value[string] `json:"name"`
	IsActive optional.Value[bool]   `json:"is_active"`
}

type teamsPayload struct {
	Home optional.Value[idName] `json:"home"`
	Away optional.Value[idName] `json:"away"`
}

type stadiumPayload struct {
	Name optional.Value[string] `json:"name"`
	City optional.Value[string] `json:"city"`
}

type goalsPayload struct {
	HomeHT  optional.Value[int] `json:"home_ht_goals"`
	AwayHT  optional.Value[int] `json:"away_ht_goals"`
	HomeFT  optional.Value[int] `json:"home_ft_goals"`
	AwayFT  optional.Value[int] `json:"away_ft_goals"`
	HomeET  optional.Value[int] `json:"home_et_goals"`
	AwayET  optional.Value[int] `json:"away_et_goals"`
	HomePen optional.Value[int] `json:"home_pen_goals"`
	AwayPen optional.Value[int] `json:"away_pen_goals"`
}

type eventPayload struct {
	EventType    optional.Value[string]     `json:"event_type"`
	EventMinute  optional.Value[flexString] `json:"event_minute"`
	Team         optional.Value[string]     `json:"team"`
	Player       optional.Value[idName]     `json:"player"`
	AssistPlayer optional.Value[idName]     `json:"assist_player"`
	PlayerIn     optional.Value[idName]     `json:"player_in"`
	PlayerOut    optional.Value[idName]     `json:"player_out"`
}

type oddsMarketPayload struct {
	Home   optional.Value[float64]    `json:"home"`
	Draw   optional.Value[float64]    `json:"draw"`
	Away   optional.Value[float64]    `json:"away"`
	Total  optional.Value[flexString] `json:"total"`
	Over   optional.Value[float64]    `json:"over"`
	Under  optional.Value[float64]    `json:"under"`
	Market optional.Value[flexString] `json:"market"`
}

type oddsPayload struct {
	MatchWinner           optional.Value[oddsMarketPayload] `json:"match_winner"`
	OverUnder             optional.Value[oddsMarketPayload] `json:"over_under"`
	Handicap              optional.Value[oddsMarketPayload] `json:"handicap"`
	LastModifiedTimestamp optional.Value[int64]             `json:"last_modified_timestamp"`
}

type lineupPlayerPayload struct {
	Player   optional.Value[idName] `json:"player"`
	Position optional.Value[string] `json:"position"`
}

type sidelinedPayload struct {
	Player optional.Value[idName] `json:"player"`
	Status optional.Value[string] `json:"status"`
	Desc   optional.Value[string] `json:"desc"`
}

type sidesPayload[T any] struct {
	Home optional.Value[T] `json:"home"`
	Away optional.Value[T] `json:"away"`
}

type lineupsPayload struct {
	LineupType optional.Value[string]                              `json:"lineup_type"`
	Lineups    optional.Value[sidesPayload[[]lineupPlayerPayload]] `json:"lineups"`
	Bench      optional.Value[sidesPayload[[]lineupPlayerPayload]] `json:"bench"`
	Sidelined  optional.Value[sidesPayload[[]sidelinedPayload]]    `json:"sidelined"`
	Formation  optional.Value[sidesPayload[string]]                `json:"formation"`
}

type previewFlag struct {
	HasPreview bool `json:"has_preview"`
}

// match-preview/
//
// Only the structured match_data block is declared. The narrative "content"
// field of a preview is never decoded.

type previewPayload struct {
	MatchData optional.Value[previewMatchData] `json:"match_data"`
}

type previewMatchData struct {
	Weather          optional.Value[weatherPayload]    `json:"weather"`
	ExcitementRating optional.Value[float64]           `json:"excitement_rating"`
	Prediction       optional.Value[predictionPayload] `json:"prediction"`
}

type weatherPayload struct {
	TempC       optional.Value[float64] `json:"temp_c"`
	Description optional.Value[string]  `json:"description"`
}

type predictionPayload struct {
	Type   optional.Value[string]     `json:"type"`
	Choice optional.Value[string]     `json:"choice"`
	Total  optional.Value[flexString] `json:"total"`
}

// standing/

type standingPayload struct {
	Stage []struct {
		Standings []standingRowPayload `json:"standings"`
	} `json:"stage"`
}

type standingRowPayload struct {
	TeamID       optional.Value[int64] `json:"team_id"`
	Position     int                   `json:"position"`
	Points       int                   `json:"points"`
	GamesPlayed  int                   `json:"games_played"`
	Wins         int                   `json:"wins"`
	Draws        int                   `json:"draws"`
	Losses       int                   `json:"losses"`
	GoalsFor     int                   `json:"goals_for"`
	GoalsAgainst int                   `json:"goals_against"`
}

// head-to-head/

type h2hPayload struct {
	Team1 optional.Value[idName] `json:"team1"`
	Team2 optional.Value[idName] `json:"team2"`
	Stats optional.Value[struct {
		Overall optional.Value[h2hOverallPayload] `json:"overall"`
	}] `json:"stats"`
}

type h2hOverallPayload struct {
	GamesPlayed optional.Value[int] `json:"overall_games_played"`
	Team1Wins   int                 `json:"overall_team1_wins"`
	Team2Wins   int                 `json:"overall_team2_wins"`
	Draws       int                 `json:"overall_draws"`
	Team1Scored int                 `json:"overall_team1_scored"`
	Team2Scored int                 `json:"overall_team2_scored"`
}
