package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
)

func TestGroupAndSort_OrdersLeaguesAndKeepsMatchOrder(t *testing.T) {
	matches := []models.Match{
		{ID: 1, LeagueID: 5},
		{ID: 2, LeagueID: 3},
		{ID: 3, LeagueID: 5},
	}

	groups := GroupAndSort(matches)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].LeagueID != 3 || groups[1].LeagueID != 5 {
		t.Fatalf("unexpected league order: %d, %d", groups[0].LeagueID, groups[1].LeagueID)
	}
	if ids := matchIDs(groups[0].Matches); !equalIDs(ids, []int64{2}) {
		t.Errorf("league 3: expected [2], got %v", ids)
	}
	if ids := matchIDs(groups[1].Matches); !equalIDs(ids, []int64{1, 3}) {
		t.Errorf("league 5: expected [1 3], got %v", ids)
	}
}

func TestGroupAndSort_Properties(t *testing.T) {
	tests := []struct {
		name    string
		leagues []int
	}{
		{"empty", nil},
		{"single", []int{7}},
		{"already sorted", []int{1, 1, 2, 3, 3}},
		{"reversed", []int{9, 8, 7, 6}},
		{"interleaved", []int{310, 228, 310, 168, 228, 310, 1000, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var matches []models.Match
			for i, league := range tt.leagues {
				matches = append(matches, models.Match{ID: int64(i + 1), LeagueID: league})
			}

			groups := GroupAndSort(matches)

			for i := 1; i < len(groups); i++ {
				if groups[i-1].LeagueID >= groups[i].LeagueID {
					t.Errorf("groups not strictly ascending at %d: %d then %d", i, groups[i-1].LeagueID, groups[i].LeagueID)
				}
			}

			seen := make(map[int64]int)
			for _, g := range groups {
				last := int64(0)
				for _, m := range g.Matches {
					if m.LeagueID != g.LeagueID {
						t.Errorf("match %d with league %d in group %d", m.ID, m.LeagueID, g.LeagueID)
					}
					if m.ID <= last {
						t.Errorf("group %d lost input order: %d after %d", g.LeagueID, m.ID, last)
					}
					last = m.ID
					seen[m.ID]++
				}
			}
			if len(seen) != len(matches) {
				t.Errorf("expected %d matches in groups, got %d", len(matches), len(seen))
			}
			for id, n := range seen {
				if n != 1 {
					t.Errorf("match %d appears %d times", id, n)
				}
			}
		})
	}
}

func TestRenderLeague(t *testing.T) {
	g := models.LeagueGroup{
		LeagueID:   228,
		LeagueName: "Premier League",
		Country:    "england",
		Matches: []models.Match{{
			ID:         1001,
			HomeTeam:   "Arsenal",
			AwayTeam:   "Chelsea",
			Kickoff:    time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC),
			LeagueID:   228,
			LeagueName: "Premier League",
			Stage:      "Regular Season",
		}},
	}

	got := RenderLeague(g, time.UTC)
	want := strings.Join([]string{
		"Premier League (England) | League ID: 228",
		"",
		"• Arsenal vs Chelsea",
		"  Kick-off: 2025-08-16 14:00 UTC",
		"  League: Premier League | Stage: Regular Season",
		"  Match ID: 1001",
	}, "\n")
	if got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderLeague_ConvertsKickoffToLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	g := models.LeagueGroup{
		LeagueID:   235,
		LeagueName: "Premier League",
		Country:    "russia",
		Matches: []models.Match{{
			ID:       7,
			HomeTeam: "Zenit",
			AwayTeam: "Spartak",
			Kickoff:  time.Date(2025, 8, 16, 16, 30, 0, 0, time.UTC),
			LeagueID: 235,
		}},
	}

	got := RenderLeague(g, loc)
	if !strings.Contains(got, "Kick-off: 2025-08-16 19:30 MSK") {
		t.Errorf("expected kickoff in MSK, got:\n%s", got)
	}
}

func TestRenderSummary_ConstantLinesPerMatch(t *testing.T) {
	full := models.Match{
		ID:         1,
		HomeTeam:   "Inter",
		AwayTeam:   "Milan",
		Kickoff:    time.Date(2025, 9, 1, 18, 45, 0, 0, time.UTC),
		LeagueID:   253,
		LeagueName: "Serie A",
		Country:    "italy",
		Stage:      "Regular Season",
	}
	sparse := models.Match{ID: 2, LeagueID: 253}

	for _, m := range []models.Match{full, sparse} {
		out := RenderSummary(GroupAndSort([]models.Match{m}), time.UTC)
		// header, blank, four match lines
		if n := len(strings.Split(out, "\n")); n != 6 {
			t.Errorf("match %d: expected 6 lines, got %d:\n%s", m.ID, n, out)
		}
	}

	out := RenderSummary(GroupAndSort([]models.Match{sparse}), time.UTC)
	for _, want := range []string{"• TBD vs TBD", "Kick-off: TBD", "League: TBD | Stage: TBD"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderSummary_SeparatesGroups(t *testing.T) {
	groups := GroupAndSort([]models.Match{
		{ID: 1, LeagueID: 5, LeagueName: "B"},
		{ID: 2, LeagueID: 3, LeagueName: "A"},
	})

	out := RenderSummary(groups, time.UTC)
	parts := strings.Split(out, "\n\n")
	// each group is header + match block, groups joined by a blank line
	if len(parts) != 4 {
		t.Fatalf("expected 4 blocks, got %d:\n%s", len(parts), out)
	}
	if !strings.HasPrefix(parts[0], "A | League ID: 3") {
		t.Errorf("expected league 3 first, got %q", parts[0])
	}
	if !strings.HasPrefix(parts[2], "B | League ID: 5") {
		t.Errorf("expected league 5 second, got %q", parts[2])
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	if out := RenderSummary(nil, time.UTC); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func matchIDs(matches []models.Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
