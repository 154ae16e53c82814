package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
)

// RenderDetail renders the long-form match report. Sections appear in a fixed
// order and only when their data is present; nothing is ever printed as a
// placeholder. A detail without id, teams, league or kickoff yields a
// *MalformedDataError and no text.
func RenderDetail(d models.MatchDetail, loc *time.Location) (string, error) {
	r, err := newReport(d, loc)
	if err != nil {
		return "", err
	}

	var w writer
	w.section(r.metadata())
	w.section(r.status())
	w.section(r.preview())
	w.section(r.standings())
	w.section(r.headToHead())
	w.section(r.odds())
	w.section(r.lineups())
	w.section(r.events())
	return w.String(), nil
}

// detailReport carries the required fields, already unwrapped.
type detailReport struct {
	d       models.MatchDetail
	loc     *time.Location
	id      int64
	home    string
	away    string
	league  models.League
	kickoff time.Time
}

func newReport(d models.MatchDetail, loc *time.Location) (*detailReport, error) {
	id, ok := d.ID.Get()
	if !ok {
		return nil, &MalformedDataError{Field: "match id"}
	}
	home, ok := d.Home.Get()
	if !ok || strings.TrimSpace(home.Name) == "" {
		return nil, &MalformedDataError{MatchID: id, Field: "home team"}
	}
	away, ok := d.Away.Get()
	if !ok || strings.TrimSpace(away.Name) == "" {
		return nil, &MalformedDataError{MatchID: id, Field: "away team"}
	}
	league, ok := d.League.Get()
	if !ok {
		return nil, &MalformedDataError{MatchID: id, Field: "league"}
	}
	kickoff, ok := d.Kickoff.Get()
	if !ok {
		return nil, &MalformedDataError{MatchID: id, Field: "kickoff time"}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &detailReport{
		d:       d,
		loc:     loc,
		id:      id,
		home:    home.Name,
		away:    away.Name,
		league:  league,
		kickoff: kickoff,
	}, nil
}

func (r *detailReport) homeLabel() string { return r.home + " (Home)" }
func (r *detailReport) awayLabel() string { return r.away + " (Away)" }

func (r *detailReport) metadata() []string {
	lines := []string{
		fmt.Sprintf("%s vs %s", r.homeLabel(), r.awayLabel()),
		fmt.Sprintf("Match ID: %d", r.id),
	}
	competition := r.league.Name
	if c, ok := r.d.Country.Get(); ok {
		competition += " (" + country(c) + ")"
	}
	lines = append(lines, fmt.Sprintf("Competition: %s | League ID: %d", competition, r.league.ID))
	if st, ok := r.d.Stage.Get(); ok {
		lines = append(lines, "Stage: "+st.Name)
	}
	lines = append(lines, "Kick-off: "+formatKickoff(r.kickoff, r.loc))
	if v, ok := r.d.Venue.Get(); ok {
		venue := v.Name
		if city, ok := v.City.Get(); ok {
			venue += ", " + city
		}
		lines = append(lines, "Venue: "+venue)
	}
	return lines
}

func (r *detailReport) status() []string {
	score, ok := r.d.Score.Get()
	if !ok {
		return nil
	}
	var lines []string
	st, hasStatus := r.d.Status.Get()
	if hasStatus {
		switch st.State {
		case "live":
			if m, ok := st.Minute.Get(); ok {
				lines = append(lines, fmt.Sprintf("Status: LIVE | Minute: %d", m))
			} else {
				lines = append(lines, "Status: LIVE")
			}
		default:
			lines = append(lines, "Status: "+strings.ToUpper(st.State))
		}
	}

	scoreLine := fmt.Sprintf("Score: FT %s %d–%d %s", r.homeLabel(), score.FullTime.Home, score.FullTime.Away, r.awayLabel())
	if ht, ok := score.HalfTime.Get(); ok {
		scoreLine += fmt.Sprintf(" | HT %d–%d", ht.Home, ht.Away)
	}
	lines = append(lines, scoreLine)
	if et, ok := score.ExtraTime.Get(); ok {
		lines = append(lines, fmt.Sprintf("Extra time: %d–%d", et.Home, et.Away))
	}
	if pen, ok := score.Penalties.Get(); ok {
		lines = append(lines, fmt.Sprintf("Penalties: %d–%d", pen.Home, pen.Away))
	}

	if hasStatus {
		if w, ok := st.Winner.Get(); ok {
			switch w {
			case "home":
				lines = append(lines, "Winner: "+r.home)
			case "away":
				lines = append(lines, "Winner: "+r.away)
			case "draw":
				lines = append(lines, "Winner: Draw")
			default:
				lines = append(lines, "Winner: "+strings.ToUpper(w))
			}
		}
	}
	return lines
}

func (r *detailReport) preview() []string {
	p, ok := r.d.Preview.Get()
	if !ok {
		return nil
	}
	var lines []string
	if w, ok := p.Weather.Get(); ok {
		weather := "Weather: " + formatTemp(w.TempC) + "°C"
		if w.Description != "" && w.Description != unknown {
			weather += ", " + w.Description
		}
		lines = append(lines, weather)
	}
	if e, ok := p.Excitement.Get(); ok {
		lines = append(lines, fmt.Sprintf("Excitement rating: %s/10", formatOdd(e)))
	}
	if pr, ok := p.Prediction.Get(); ok {
		label := pr.Type
		if line, ok := pr.Line.Get(); ok {
			label += " " + line
		}
		lines = append(lines, fmt.Sprintf("Prediction [%s]: %s", label, pr.Choice))
	}
	return lines
}

func (r *detailReport) standings() []string {
	st, ok := r.d.Standing.Get()
	if !ok {
		return nil
	}
	var rows []string
	if row, ok := st.Home.Get(); ok {
		rows = append(rows, standingLine(r.homeLabel(), row))
	}
	if row, ok := st.Away.Get(); ok {
		rows = append(rows, standingLine(r.awayLabel(), row))
	}
	if len(rows) == 0 {
		return nil
	}
	return append([]string{"Table snapshot"}, rows...)
}

func standingLine(team string, row models.StandingRow) string {
	return fmt.Sprintf("%s: Pos %d | Pts %d | GP %d | W-D-L %d-%d-%d | GF %d GA %d",
		team, row.Position, row.Points, row.Played, row.Wins, row.Draws, row.Losses, row.GoalsFor, row.GoalsAgainst)
}

func (r *detailReport) headToHead() []string {
	h, ok := r.d.H2H.Get()
	if !ok {
		return nil
	}
	return []string{
		fmt.Sprintf("Head-to-head (%d games)", h.Played),
		fmt.Sprintf("%s wins: %d | Draws: %d | %s wins: %d", r.home, h.HomeWins, h.Draws, r.away, h.AwayWins),
		fmt.Sprintf("Goals: %s %d–%d %s", r.home, h.HomeGoals, h.AwayGoals, r.away),
	}
}

func (r *detailReport) odds() []string {
	o := r.d.Odds
	var markets []string
	if mw, ok := o.MatchWinner.Get(); ok {
		var prices []string
		if v, ok := mw.Home.Get(); ok {
			prices = append(prices, r.homeLabel()+" "+formatOdd(v))
		}
		if v, ok := mw.Draw.Get(); ok {
			prices = append(prices, "Draw "+formatOdd(v))
		}
		if v, ok := mw.Away.Get(); ok {
			prices = append(prices, r.awayLabel()+" "+formatOdd(v))
		}
		if len(prices) > 0 {
			markets = append(markets, "1X2: "+strings.Join(prices, " | "))
		}
	}
	if ou, ok := o.OverUnder.Get(); ok {
		var prices []string
		if v, ok := ou.Over.Get(); ok {
			prices = append(prices, "Over "+formatOdd(v))
		}
		if v, ok := ou.Under.Get(); ok {
			prices = append(prices, "Under "+formatOdd(v))
		}
		if len(prices) > 0 {
			markets = append(markets, fmt.Sprintf("Over/Under %s: %s", ou.Line, strings.Join(prices, " | ")))
		}
	}
	if hc, ok := o.Handicap.Get(); ok {
		var prices []string
		if v, ok := hc.Home.Get(); ok {
			prices = append(prices, r.homeLabel()+" "+formatOdd(v))
		}
		if v, ok := hc.Away.Get(); ok {
			prices = append(prices, r.awayLabel()+" "+formatOdd(v))
		}
		if len(prices) > 0 {
			markets = append(markets, fmt.Sprintf("Handicap %s: %s", hc.Line, strings.Join(prices, " | ")))
		}
	}
	if len(markets) == 0 {
		return nil
	}

	header := "Odds"
	if ts, ok := o.UpdatedAt.Get(); ok {
		header += " (last update: " + formatKickoff(ts, r.loc) + ")"
	}
	return append([]string{header}, markets...)
}

func (r *detailReport) lineups() []string {
	l, ok := r.d.Lineups.Get()
	if !ok {
		return nil
	}
	var teams [][]string
	if home, ok := l.Home.Get(); ok && !home.Empty() {
		if t := teamLineupLines(r.homeLabel(), home); t != nil {
			teams = append(teams, t)
		}
	}
	if away, ok := l.Away.Get(); ok && !away.Empty() {
		if t := teamLineupLines(r.awayLabel(), away); t != nil {
			teams = append(teams, t)
		}
	}
	if len(teams) == 0 {
		return nil
	}

	header := "Lineups"
	if kind, ok := l.Kind.Get(); ok {
		header += ": " + kind
	}
	lines := []string{header}
	for _, t := range teams {
		lines = append(lines, "")
		lines = append(lines, t...)
	}
	return lines
}

func teamLineupLines(team string, l models.TeamLineup) []string {
	lines := []string{team}
	if f, ok := l.Formation.Get(); ok && f != "" {
		lines = append(lines, "Formation: "+f)
	}
	if xi, ok := l.StartingXI.Get(); ok && len(xi) > 0 {
		lines = append(lines, startingXILines(xi)...)
	}
	if bench, ok := l.Bench.Get(); ok && len(bench) > 0 {
		names := make([]string, 0, len(bench))
		for _, p := range bench {
			names = append(names, p.Name)
		}
		lines = append(lines, "Bench: "+strings.Join(names, ", "))
	}
	if out, ok := l.Sidelined.Get(); ok && len(out) > 0 {
		parts := make([]string, 0, len(out))
		for _, p := range out {
			var tail []string
			if s, ok := p.Status.Get(); ok {
				tail = append(tail, s)
			}
			if s, ok := p.Reason.Get(); ok {
				tail = append(tail, s)
			}
			if len(tail) > 0 {
				parts = append(parts, fmt.Sprintf("%s (%s)", p.Name, strings.Join(tail, "; ")))
			} else {
				parts = append(parts, p.Name)
			}
		}
		lines = append(lines, "Sidelined: "+strings.Join(parts, ", "))
	}
	if len(lines) == 1 {
		return nil
	}
	return lines
}

var positionOrder = []string{"GK", "DEF", "MID", "ATT", "OTHER"}

// startingXILines buckets the first eleven players by position, GK to ATT.
func startingXILines(players []models.LineupPlayer) []string {
	if len(players) > 11 {
		players = players[:11]
	}
	buckets := make(map[string][]string)
	for _, p := range players {
		b := positionBucket(p.Position)
		buckets[b] = append(buckets[b], p.Name)
	}
	var lines []string
	for _, b := range positionOrder {
		if names := buckets[b]; len(names) > 0 {
			lines = append(lines, b+": "+strings.Join(names, ", "))
		}
	}
	return lines
}

func positionBucket(pos string) string {
	p := strings.ToLower(strings.TrimSpace(pos))
	switch {
	case strings.Contains(p, "goal") || p == "gk" || p == "g":
		return "GK"
	case strings.Contains(p, "def") || p == "d":
		return "DEF"
	case strings.Contains(p, "mid") || p == "m":
		return "MID"
	case strings.Contains(p, "att") || strings.Contains(p, "forw") || p == "f":
		return "ATT"
	}
	return "OTHER"
}

func (r *detailReport) events() []string {
	if len(r.d.Events) == 0 {
		return nil
	}
	lines := []string{"Events"}
	for _, e := range models.SortEvents(r.d.Events) {
		lines = append(lines, eventLine(e))
	}
	return lines
}

func eventLine(e models.MatchEvent) string {
	var b strings.Builder
	if m := e.Minute.String(); m != "" {
		b.WriteString(m + "' ")
	}

	switch e.Kind {
	case models.EventGoal:
		if e.Type == "goal" {
			b.WriteString("Goal")
		} else {
			b.WriteString(humanize(e.Type))
		}
	case models.EventCard:
		switch {
		case e.CardColor != "":
			b.WriteString(humanize(e.CardColor) + " card")
		case e.Type != "":
			b.WriteString(humanize(e.Type))
		default:
			b.WriteString("Card")
		}
	case models.EventSubstitution:
		b.WriteString("Substitution")
	default:
		b.WriteString(humanize(e.Type))
	}

	switch e.Side {
	case models.SideHome:
		b.WriteString(" (Home)")
	case models.SideAway:
		b.WriteString(" (Away)")
	}

	if e.Kind == models.EventSubstitution {
		var swap []string
		if p, ok := e.PlayerIn.Get(); ok {
			swap = append(swap, "IN "+p)
		}
		if p, ok := e.PlayerOut.Get(); ok {
			swap = append(swap, "OUT "+p)
		}
		if len(swap) > 0 {
			b.WriteString(" " + strings.Join(swap, " | "))
		}
		return b.String()
	}

	if p, ok := e.Player.Get(); ok {
		b.WriteString(" " + p)
	}
	if e.Kind == models.EventGoal {
		if a, ok := e.Assist.Get(); ok {
			b.WriteString(", assist " + a)
		}
	}
	return b.String()
}
