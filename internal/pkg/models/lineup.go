package models

import "github.com/Vodeneev/matchbot/internal/pkg/optional"

// Lineups holds both teams' sheets. Kind is "confirmed" or "predicted".
type Lineups struct {
	Kind optional.Value[string]     `json:"kind"`
	Home optional.Value[TeamLineup] `json:"home"`
	Away optional.Value[TeamLineup] `json:"away"`
}

// TeamLineup is one side's sheet. Any part may be unknown.
type TeamLineup struct {
	Formation  optional.Value[string]            `json:"formation"`
	StartingXI optional.Value[[]LineupPlayer]    `json:"starting_xi"`
	Bench      optional.Value[[]LineupPlayer]    `json:"bench"`
	Sidelined  optional.Value[[]SidelinedPlayer] `json:"sidelined"`
}

// Empty reports whether the lineup carries nothing renderable. Empty lists and
// a blank formation count as absent.
func (l TeamLineup) Empty() bool {
	return l.Formation.OrElse("") == "" &&
		len(l.StartingXI.OrElse(nil)) == 0 &&
		len(l.Bench.OrElse(nil)) == 0 &&
		len(l.Sidelined.OrElse(nil)) == 0
}

// LineupPlayer is a player on the sheet with their position, e.g. "Goalkeeper", "D".
type LineupPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// SidelinedPlayer is an injured or suspended player.
type SidelinedPlayer struct {
	Name   string                 `json:"name"`
	Status optional.Value[string] `json:"status"`
	Reason optional.Value[string] `json:"reason"`
}
