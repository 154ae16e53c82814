package soccerdata

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
	"github.com/Vodeneev/matchbot/internal/pkg/optional"
)

// GetMatchDetail fetches one match and enriches it with preview signals,
// the league table snapshot and the head-to-head record. The enrichment calls
// are independent: if one fails its section stays absent and the report still
// renders.
func (c *Client) GetMatchDetail(ctx context.Context, matchID int64) (models.MatchDetail, error) {
	var raw matchPayload
	params := url.Values{"match_id": {strconv.FormatInt(matchID, 10)}}
	if err := c.doJSON(ctx, endpointMatch, params, &raw); err != nil {
		if errors.Is(err, errNotFound) {
			return models.MatchDetail{}, &NotFoundError{MatchID: matchID}
		}
		return models.MatchDetail{}, err
	}
	if !raw.ID.IsSet() {
		// An empty object is how the API answers unknown ids on some plans.
		return models.MatchDetail{}, &NotFoundError{MatchID: matchID}
	}

	detail := convertMatch(raw)

	if flag, ok := raw.MatchPreview.Get(); ok && flag.HasPreview {
		detail.Preview = c.fetchPreview(ctx, matchID)
	}
	if league, ok := detail.League.Get(); ok {
		detail.Standing = c.fetchStanding(ctx, league.ID, detail.Home, detail.Away)
	}
	detail.H2H = c.fetchH2H(ctx, detail.Home, detail.Away)

	return detail, nil
}

func (c *Client) fetchPreview(ctx context.Context, matchID int64) optional.Value[models.Preview] {
	var raw previewPayload
	params := url.Values{"match_id": {strconv.FormatInt(matchID, 10)}}
	if err := c.doJSON(ctx, endpointPreview, params, &raw); err != nil {
		c.logger.WarnContext(ctx, "Match preview unavailable", "match_id", matchID, "error", err)
		return optional.None[models.Preview]()
	}
	return convertPreview(raw)
}

func (c *Client) fetchStanding(ctx context.Context, leagueID int, home, away optional.Value[models.Team]) optional.Value[models.Standing] {
	homeID, okHome := teamID(home)
	awayID, okAway := teamID(away)
	if !okHome && !okAway {
		return optional.None[models.Standing]()
	}

	var raw standingPayload
	params := url.Values{"league_id": {strconv.Itoa(leagueID)}}
	if err := c.doJSON(ctx, endpointStanding, params, &raw); err != nil {
		c.logger.WarnContext(ctx, "Standings unavailable", "league_id", leagueID, "error", err)
		return optional.None[models.Standing]()
	}

	var st models.Standing
	if okHome {
		st.Home = standingRow(raw, homeID)
	}
	if okAway {
		st.Away = standingRow(raw, awayID)
	}
	if !st.Home.IsSet() && !st.Away.IsSet() {
		return optional.None[models.Standing]()
	}
	return optional.Some(st)
}

func (c *Client) fetchH2H(ctx context.Context, home, away optional.Value[models.Team]) optional.Value[models.HeadToHead] {
	homeID, okHome := teamID(home)
	awayID, okAway := teamID(away)
	if !okHome || !okAway || homeID == awayID {
		return optional.None[models.HeadToHead]()
	}

	var raw h2hPayload
	params := url.Values{
		"team_1_id": {strconv.FormatInt(homeID, 10)},
		"team_2_id": {strconv.FormatInt(awayID, 10)},
	}
	if err := c.doJSON(ctx, endpointH2H, params, &raw); err != nil {
		c.logger.WarnContext(ctx, "Head-to-head unavailable", "home_id", homeID, "away_id", awayID, "error", err)
		return optional.None[models.HeadToHead]()
	}
	return convertH2H(raw, homeID)
}

func teamID(team optional.Value[models.Team]) (int64, bool) {
	t, ok := team.Get()
	if !ok {
		return 0, false
	}
	return t.ID.Get()
}

func convertMatch(raw matchPayload) models.MatchDetail {
	d := models.MatchDetail{ID: raw.ID}

	if teams, ok := raw.Teams.Get(); ok {
		d.Home = convertTeam(teams.Home)
		d.Away = convertTeam(teams.Away)
	}
	if lg, ok := raw.League.Get(); ok {
		id, okID := lg.ID.Get()
		name, okName := nameOf(lg.Name)
		if okID && okName {
			d.League = optional.Some(models.League{ID: int(id), Name: name})
		}
	}
	if kickoff, ok := parseKickoff(raw.Date.OrElse(""), raw.Time.OrElse("")); ok {
		d.Kickoff = optional.Some(kickoff)
	}
	if ctry, ok := raw.Country.Get(); ok {
		if name, ok := nameOf(ctry.Name); ok {
			d.Country = optional.Some(name)
		}
	}
	if st, ok := raw.Stage.Get(); ok {
		if name, ok := nameOf(st.Name); ok {
			d.Stage = optional.Some(models.Stage{Name: name, Active: st.IsActive})
		}
	}
	if sd, ok := raw.Stadium.Get(); ok {
		if name, ok := nameOf(sd.Name); ok {
			v := models.Venue{Name: name}
			if city, ok := nameOf(sd.City); ok {
				v.City = optional.Some(city)
			}
			d.Venue = optional.Some(v)
		}
	}

	d.Status = convertStatus(raw)
	d.Score = convertScore(raw)
	d.Odds = convertOdds(raw.Odds)
	d.Lineups = convertLineups(raw.Lineups)
	d.Events = convertEvents(raw.Events)
	return d
}

func convertTeam(raw optional.Value[idName]) optional.Value[models.Team] {
	t, ok := raw.Get()
	if !ok {
		return optional.None[models.Team]()
	}
	name, ok := nameOf(t.Name)
	if !ok {
		return optional.None[models.Team]()
	}
	return optional.Some(models.Team{ID: t.ID, Name: name})
}

func convertStatus(raw matchPayload) optional.Value[models.Status] {
	state, ok := nameOf(raw.Status)
	if !ok {
		return optional.None[models.Status]()
	}
	st := models.Status{State: strings.ToLower(state)}
	if m, ok := raw.Minute.Get(); ok {
		if n, err := strconv.Atoi(string(m)); err == nil && n >= 0 {
			st.Minute = optional.Some(n)
		}
	}
	if w, ok := nameOf(raw.Winner); ok {
		st.Winner = optional.Some(strings.ToLower(w))
	}
	return optional.Some(st)
}

// convertScore yields a score only once the match has kicked off. The API
// reports unplayed goals as missing or negative.
func convertScore(raw matchPayload) optional.Value[models.Score] {
	if state, ok := nameOf(raw.Status); ok {
		switch strings.ToLower(state) {
		case "pre-match", "prematch", "scheduled", "not started", "postponed", "cancelled", "canceled":
			return optional.None[models.Score]()
		}
	}
	g, ok := raw.Goals.Get()
	if !ok {
		return optional.None[models.Score]()
	}
	ft, ok := scoreLine(g.HomeFT, g.AwayFT)
	if !ok {
		return optional.None[models.Score]()
	}
	s := models.Score{FullTime: ft}
	if ht, ok := scoreLine(g.HomeHT, g.AwayHT); ok {
		s.HalfTime = optional.Some(ht)
	}
	if raw.HasExtraTime.OrElse(false) {
		if et, ok := scoreLine(g.HomeET, g.AwayET); ok {
			s.ExtraTime = optional.Some(et)
		}
	}
	if raw.HasPenalties.OrElse(false) {
		if pen, ok := scoreLine(g.HomePen, g.AwayPen); ok {
			s.Penalties = optional.Some(pen)
		}
	}
	return optional.Some(s)
}

func scoreLine(home, away optional.Value[int]) (models.ScoreLine, bool) {
	h, okH := home.Get()
	a, okA := away.Get()
	if !okH || !okA || h < 0 || a < 0 {
		return models.ScoreLine{}, false
	}
	return models.ScoreLine{Home: h, Away: a}, true
}

func convertOdds(raw optional.Value[oddsPayload]) models.Odds {
	var o models.Odds
	p, ok := raw.Get()
	if !ok {
		return o
	}
	if mw, ok := p.MatchWinner.Get(); ok && (mw.Home.IsSet() || mw.Draw.IsSet() || mw.Away.IsSet()) {
		o.MatchWinner = optional.Some(models.MatchWinnerOdds{Home: mw.Home, Draw: mw.Draw, Away: mw.Away})
	}
	if ou, ok := p.OverUnder.Get(); ok && (ou.Over.IsSet() || ou.Under.IsSet()) {
		if line, ok := ou.Total.Get(); ok && line != "" {
			o.OverUnder = optional.Some(models.OverUnderOdds{Line: string(line), Over: ou.Over, Under: ou.Under})
		}
	}
	if hc, ok := p.Handicap.Get(); ok && (hc.Home.IsSet() || hc.Away.IsSet()) {
		if line, ok := hc.Market.Get(); ok && line != "" {
			o.Handicap = optional.Some(models.HandicapOdds{Line: string(line), Home: hc.Home, Away: hc.Away})
		}
	}
	if ts, ok := p.LastModifiedTimestamp.Get(); ok && ts > 0 {
		o.UpdatedAt = optional.Some(time.Unix(ts, 0).UTC())
	}
	return o
}

func convertLineups(raw optional.Value[lineupsPayload]) optional.Value[models.Lineups] {
	p, ok := raw.Get()
	if !ok {
		return optional.None[models.Lineups]()
	}

	var home, away models.TeamLineup
	if xi, ok := p.Lineups.Get(); ok {
		home.StartingXI = convertPlayers(xi.Home)
		away.StartingXI = convertPlayers(xi.Away)
	}
	if bench, ok := p.Bench.Get(); ok {
		home.Bench = convertPlayers(bench.Home)
		away.Bench = convertPlayers(bench.Away)
	}
	if out, ok := p.Sidelined.Get(); ok {
		home.Sidelined = convertSidelined(out.Home)
		away.Sidelined = convertSidelined(out.Away)
	}
	if f, ok := p.Formation.Get(); ok {
		if v, ok := nameOf(f.Home); ok {
			home.Formation = optional.Some(v)
		}
		if v, ok := nameOf(f.Away); ok {
			away.Formation = optional.Some(v)
		}
	}

	var l models.Lineups
	if kind, ok := nameOf(p.LineupType); ok {
		l.Kind = optional.Some(kind)
	}
	if !home.Empty() {
		l.Home = optional.Some(home)
	}
	if !away.Empty() {
		l.Away = optional.Some(away)
	}
	if !l.Home.IsSet() && !l.Away.IsSet() {
		return optional.None[models.Lineups]()
	}
	return optional.Some(l)
}

// convertPlayers treats an empty list the same as a missing one.
func convertPlayers(raw optional.Value[[]lineupPlayerPayload]) optional.Value[[]models.LineupPlayer] {
	list, _ := raw.Get()
	var out []models.LineupPlayer
	for _, lp := range list {
		p, ok := lp.Player.Get()
		if !ok {
			continue
		}
		name, ok := nameOf(p.Name)
		if !ok {
			continue
		}
		out = append(out, models.LineupPlayer{Name: name, Position: strings.TrimSpace(lp.Position.OrElse(""))})
	}
	if len(out) == 0 {
		return optional.None[[]models.LineupPlayer]()
	}
	return optional.Some(out)
}

func convertSidelined(raw optional.Value[[]sidelinedPayload]) optional.Value[[]models.SidelinedPlayer] {
	list, _ := raw.Get()
	var out []models.SidelinedPlayer
	for _, sp := range list {
		p, ok := sp.Player.Get()
		if !ok {
			continue
		}
		name, ok := nameOf(p.Name)
		if !ok {
			continue
		}
		entry := models.SidelinedPlayer{Name: name}
		if v, ok := nameOf(sp.Status); ok {
			entry.Status = optional.Some(v)
		}
		if v, ok := nameOf(sp.Desc); ok {
			entry.Reason = optional.Some(v)
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return optional.None[[]models.SidelinedPlayer]()
	}
	return optional.Some(out)
}

func convertEvents(raw []eventPayload) []models.MatchEvent {
	out := make([]models.MatchEvent, 0, len(raw))
	for _, e := range raw {
		typ := strings.ToLower(strings.TrimSpace(e.EventType.OrElse("")))
		if typ == "" {
			continue
		}
		ev := models.MatchEvent{
			Minute: models.ParseMinute(string(e.EventMinute.OrElse(""))),
			Type:   typ,
			Player: playerName(e.Player),
			Assist: playerName(e.AssistPlayer),
		}
		switch strings.ToLower(strings.TrimSpace(e.Team.OrElse(""))) {
		case "home":
			ev.Side = models.SideHome
		case "away":
			ev.Side = models.SideAway
		}
		switch typ {
		case "goal", "penalty_goal", "own_goal":
			ev.Kind = models.EventGoal
		case "yellow_card":
			ev.Kind, ev.CardColor = models.EventCard, "yellow"
		case "red_card":
			ev.Kind, ev.CardColor = models.EventCard, "red"
		case "yellow_red_card", "second_yellow_card":
			ev.Kind, ev.CardColor = models.EventCard, "second yellow"
		case "substitution":
			ev.Kind = models.EventSubstitution
			ev.PlayerIn = playerName(e.PlayerIn)
			ev.PlayerOut = playerName(e.PlayerOut)
		default:
			ev.Kind = models.EventOther
		}
		out = append(out, ev)
	}
	return out
}

func playerName(raw optional.Value[idName]) optional.Value[string] {
	p, ok := raw.Get()
	if !ok {
		return optional.None[string]()
	}
	if name, ok := nameOf(p.Name); ok {
		return optional.Some(name)
	}
	return optional.None[string]()
}

func convertPreview(raw previewPayload) optional.Value[models.Preview] {
	md, ok := raw.MatchData.Get()
	if !ok {
		return optional.None[models.Preview]()
	}
	var p models.Preview
	if w, ok := md.Weather.Get(); ok {
		if temp, ok := w.TempC.Get(); ok {
			p.Weather = optional.Some(models.Weather{TempC: temp, Description: cleanName(w.Description)})
		}
	}
	p.Excitement = md.ExcitementRating
	if pr, ok := md.Prediction.Get(); ok {
		typ, okType := nameOf(pr.Type)
		choice, okChoice := nameOf(pr.Choice)
		if okType && okChoice {
			pred := models.Prediction{Type: typ, Choice: choice}
			if line, ok := pr.Total.Get(); ok && line != "" {
				pred.Line = optional.Some(string(line))
			}
			p.Prediction = optional.Some(pred)
		}
	}
	if !p.Weather.IsSet() && !p.Excitement.IsSet() && !p.Prediction.IsSet() {
		return optional.None[models.Preview]()
	}
	return optional.Some(p)
}

func standingRow(raw standingPayload, teamID int64) optional.Value[models.StandingRow] {
	for _, stage := range raw.Stage {
		for _, row := range stage.Standings {
			if id, ok := row.TeamID.Get(); ok && id == teamID {
				return optional.Some(models.StandingRow{
					Position:     row.Position,
					Points:       row.Points,
					Played:       row.GamesPlayed,
					Wins:         row.Wins,
					Draws:        row.Draws,
					Losses:       row.Losses,
					GoalsFor:     row.GoalsFor,
					GoalsAgainst: row.GoalsAgainst,
				})
			}
		}
	}
	return optional.None[models.StandingRow]()
}

// convertH2H orients the record so "home" is the match's home team, whichever
// slot the API put it in.
func convertH2H(raw h2hPayload, homeID int64) optional.Value[models.HeadToHead] {
	stats, ok := raw.Stats.Get()
	if !ok {
		return optional.None[models.HeadToHead]()
	}
	overall, ok := stats.Overall.Get()
	if !ok {
		return optional.None[models.HeadToHead]()
	}
	played, ok := overall.GamesPlayed.Get()
	if !ok {
		return optional.None[models.HeadToHead]()
	}
	h := models.HeadToHead{
		Played:    played,
		HomeWins:  overall.Team1Wins,
		AwayWins:  overall.Team2Wins,
		Draws:     overall.Draws,
		HomeGoals: overall.Team1Scored,
		AwayGoals: overall.Team2Scored,
	}
	if t2, ok := raw.Team2.Get(); ok {
		if id, ok := t2.ID.Get(); ok && id == homeID {
			h.HomeWins, h.AwayWins = h.AwayWins, h.HomeWins
			h.HomeGoals, h.AwayGoals = h.AwayGoals, h.HomeGoals
		}
	}
	return optional.Some(h)
}
