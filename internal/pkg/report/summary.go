package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
)

const unknown = "TBD"

// GroupAndSort buckets matches by league. Groups come out in ascending league
// id order; matches keep their input order within a group.
func GroupAndSort(matches []models.Match) []models.LeagueGroup {
	index := make(map[int]int)
	var groups []models.LeagueGroup
	for _, m := range matches {
		i, ok := index[m.LeagueID]
		if !ok {
			i = len(groups)
			index[m.LeagueID] = i
			groups = append(groups, models.LeagueGroup{
				LeagueID:   m.LeagueID,
				LeagueName: m.LeagueName,
				Country:    m.Country,
			})
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LeagueID < groups[j].LeagueID
	})
	return groups
}

// RenderSummary renders every group, separated by a blank line.
func RenderSummary(groups []models.LeagueGroup, loc *time.Location) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, RenderLeague(g, loc))
	}
	return strings.Join(parts, "\n\n")
}

// RenderLeague renders one league header followed by its matches. Each match
// takes exactly four lines.
func RenderLeague(g models.LeagueGroup, loc *time.Location) string {
	var w writer
	w.line(leagueHeader(g))
	for _, m := range g.Matches {
		w.blank()
		for _, l := range matchLines(m, loc) {
			w.line(l)
		}
	}
	return w.String()
}

func leagueHeader(g models.LeagueGroup) string {
	name := g.LeagueName
	if name == "" {
		name = unknown
	}
	if g.Country != "" && g.Country != unknown {
		return fmt.Sprintf("%s (%s) | League ID: %d", name, country(g.Country), g.LeagueID)
	}
	return fmt.Sprintf("%s | League ID: %d", name, g.LeagueID)
}

func matchLines(m models.Match, loc *time.Location) []string {
	return []string{
		fmt.Sprintf("• %s vs %s", orUnknown(m.HomeTeam), orUnknown(m.AwayTeam)),
		fmt.Sprintf("  Kick-off: %s", formatKickoff(m.Kickoff, loc)),
		fmt.Sprintf("  League: %s | Stage: %s", orUnknown(m.LeagueName), orUnknown(m.Stage)),
		fmt.Sprintf("  Match ID: %d", m.ID),
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
