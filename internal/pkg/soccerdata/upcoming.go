package soccerdata

import (
	"context"
	"strings"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

const unknownName = "TBD"

// Window bounds kickoff times. A zero From or To leaves that side open.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether kickoff falls inside the window. An unknown (zero)
// kickoff only passes an unbounded window.
func (w Window) Contains(kickoff time.Time) bool {
	if w.From.IsZero() && w.To.IsZero() {
		return true
	}
	if kickoff.IsZero() {
		return false
	}
	if !w.From.IsZero() && kickoff.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && kickoff.After(w.To) {
		return false
	}
	return true
}

// ListUpcoming fetches upcoming matches and keeps those whose league is in the
// allow-list and whose kickoff is inside window. Output follows payload order.
func (c *Client) ListUpcoming(ctx context.Context, window Window) ([]models.Match, error) {
	var resp upcomingResponse
	if err := c.doJSON(ctx, endpointUpcoming, nil, &resp); err != nil {
		return nil, asUpstream(endpointUpcoming, err)
	}

	var out []models.Match
	seen := make(map[int64]struct{})
	skipped := 0
	for _, raw := range resp.Results {
		var block leagueBlock
		if err := json.Unmarshal(raw, &block); err != nil {
			skipped++
			continue
		}
		leagueID, ok := block.LeagueID.Get()
		if !ok || !c.Allowed(leagueID) {
			continue
		}

		leagueName := cleanName(block.LeagueName)
		country := unknownName
		if ctry, ok := block.Country.Get(); ok {
			country = cleanName(ctry.Name)
		}
		blockStage := block.Stage

		for _, rawMatch := range block.MatchPreviews {
			var item previewItem
			if err := json.Unmarshal(rawMatch, &item); err != nil {
				skipped++
				continue
			}
			id, ok := item.ID.Get()
			if !ok {
				skipped++
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}

			kickoff, _ := parseKickoff(item.Date.OrElse(""), item.Time.OrElse(""))
			if !window.Contains(kickoff) {
				continue
			}

			stage := item.Stage
			if !stage.IsSet() {
				stage = blockStage
			}
			stageName := unknownName
			if st, ok := stage.Get(); ok {
				stageName = cleanName(st.Name)
			}

			seen[id] = struct{}{}
			out = append(out, models.Match{
				ID:         id,
				HomeTeam:   teamName(item.Teams.Home),
				AwayTeam:   teamName(item.Teams.Away),
				Kickoff:    kickoff,
				LeagueID:   leagueID,
				LeagueName: leagueName,
				Country:    country,
				Stage:      stageName,
			})
		}
	}

	if skipped > 0 {
		c.logger.DebugContext(ctx, "Skipped malformed upcoming entries", "count", skipped)
	}
	c.logger.DebugContext(ctx, "Fetched upcoming matches", "matches", len(out), "leagues_allowed", len(c.leagues))
	return out, nil
}

// parseKickoff combines the API's "dd/mm/yyyy" date and "HH:MM" time, both UTC.
func parseKickoff(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, false
	}
	if clock == "" {
		clock = "00:00"
	}
	for _, layout := range []string{"02/01/2006 15:04", "2006-01-02 15:04", "02/01/2006 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func teamName(team optional.Value[idName]) string {
	t, ok := team.Get()
	if !ok {
		return unknownName
	}
	return cleanName(t.Name)
}

// cleanName maps missing and "None"/"null" names to TBD.
func cleanName(v optional.Value[string]) string {
	if s, ok := nameOf(v); ok {
		return s
	}
	return unknownName
}

// nameOf trims a name and treats "", "None" and "null" as absent.
func nameOf(v optional.Value[string]) (string, bool) {
	s, ok := v.Get()
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return "", false
	}
	return s, true
}
