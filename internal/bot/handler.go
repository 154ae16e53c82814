package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/metrics"
	"github.com/Vodeneev/matchbot/internal/pkg/models"
	"github.com/Vodeneev/matchbot/internal/pkg/report"
	"github.com/Vodeneev/matchbot/internal/pkg/soccerdata"
)

const (
	reportPrefix      = "r:"
	defaultMessageLen = 3800
	buttonsPerRow     = 2
	actionHelp        = "help"
	actionUpcoming    = "upcoming"
	actionReport      = "report"
	msgNoUpcoming     = "No upcoming matches for configured leagues."
	msgUnknownCommand = "Unknown command. Use /help to see available commands."
	msgUpstream       = "Could not reach the match data service. Please try again later."
	msgInternal       = "Something went wrong. Please try again later."
	msgBuildingReport = "Building report..."
	msgInvalidMatchID = "Invalid match id"
	msgReportUsage    = "Usage: /report <match id>"
	msgAccessDenied   = "Access denied. You are not authorized to use this bot."
)

const helpText = `Football match reports

/upcoming - upcoming matches in the configured leagues
/report <match id> - full report for one match
/help - show this message

Each league comes with a Report button per match.`

// MatchSource is the data side of the bot. *soccerdata.Client implements it.
type MatchSource interface {
	ListUpcoming(ctx context.Context, window soccerdata.Window) ([]models.Match, error)
	GetMatchDetail(ctx context.Context, matchID int64) (models.MatchDetail, error)
}

type Options struct {
	// Location is the zone kickoff times are rendered in. Defaults to UTC.
	Location *time.Location
	// UpcomingWindow limits /upcoming to kickoffs before now+UpcomingWindow. Zero means no limit.
	UpcomingWindow time.Duration
	MaxMessageLen  int
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

// Handler turns commands and button presses into fetch, render and send.
// It holds no per-request state and is safe for concurrent use.
type Handler struct {
	source    MatchSource
	messenger Messenger
	loc       *time.Location
	window    time.Duration
	maxLen    int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewHandler(source MatchSource, messenger Messenger, opts Options) *Handler {
	h := &Handler{
		source:    source,
		messenger: messenger,
		loc:       opts.Location,
		window:    opts.UpcomingWindow,
		maxLen:    opts.MaxMessageLen,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.maxLen <= 0 {
		h.maxLen = defaultMessageLen
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// HandleMessage dispatches a text message from chatID.
func (h *Handler) HandleMessage(ctx context.Context, chatID int64, text string) {
	defer h.recoverPanic(ctx, "message", chatID)

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !strings.HasPrefix(text, "/") {
		h.help(ctx, chatID)
		return
	}

	parts := strings.Fields(text)
	command, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")

	switch command {
	case "/start", "/help":
		h.help(ctx, chatID)
	case "/upcoming":
		h.upcoming(ctx, chatID)
	case "/report":
		if len(parts) < 2 {
			h.send(ctx, chatID, msgReportUsage)
			return
		}
		id, err := parseMatchID(parts[1])
		if err != nil {
			h.send(ctx, chatID, msgReportUsage)
			return
		}
		h.report(ctx, chatID, id)
	default:
		h.send(ctx, chatID, msgUnknownCommand)
	}
}

// HandleCallback handles an inline button press. Only "r:<id>" payloads are known.
func (h *Handler) HandleCallback(ctx context.Context, chatID int64, callbackID, data string) {
	defer h.recoverPanic(ctx, "callback", chatID)

	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, reportPrefix) {
		h.answer(ctx, callbackID, "")
		return
	}
	id, err := parseMatchID(strings.TrimPrefix(data, reportPrefix))
	if err != nil {
		h.answer(ctx, callbackID, msgInvalidMatchID)
		return
	}

	h.answer(ctx, callbackID, msgBuildingReport)
	h.report(ctx, chatID, id)
}

func (h *Handler) help(ctx context.Context, chatID int64) {
	h.send(ctx, chatID, helpText)
	h.metrics.ObserveAction(actionHelp, metrics.ResultOK)
}

func (h *Handler) upcoming(ctx context.Context, chatID int64) {
	var window soccerdata.Window
	if h.window > 0 {
		window.To = h.now().Add(h.window)
	}

	matches, err := h.source.ListUpcoming(ctx, window)
	if err != nil {
		h.fail(ctx, chatID, actionUpcoming, 0, err)
		return
	}
	if len(matches) == 0 {
		h.send(ctx, chatID, msgNoUpcoming)
		h.metrics.ObserveAction(actionUpcoming, metrics.ResultOK)
		return
	}

	groups := report.GroupAndSort(matches)
	for _, g := range groups {
		chunks := chunkText(report.RenderLeague(g, h.loc), h.maxLen)
		if len(chunks) == 0 {
			continue
		}
		for _, c := range chunks[:len(chunks)-1] {
			h.send(ctx, chatID, c)
		}
		if err := h.messenger.SendWithButtons(ctx, chatID, chunks[len(chunks)-1], reportButtons(g.Matches)); err != nil {
			h.logger.ErrorContext(ctx, "Failed to send league message", "chat_id", chatID, "league_id", g.LeagueID, "error", err)
		}
	}

	h.logger.InfoContext(ctx, "Sent upcoming matches", "chat_id", chatID, "matches", len(matches), "leagues", len(groups))
	h.metrics.ObserveAction(actionUpcoming, metrics.ResultOK)
}

func (h *Handler) report(ctx context.Context, chatID int64, matchID int64) {
	detail, err := h.source.GetMatchDetail(ctx, matchID)
	if err != nil {
		h.fail(ctx, chatID, actionReport, matchID, err)
		return
	}
	text, err := report.RenderDetail(detail, h.loc)
	if err != nil {
		h.fail(ctx, chatID, actionReport, matchID, err)
		return
	}

	for _, part := range chunkText(text, h.maxLen) {
		h.send(ctx, chatID, part)
	}
	h.logger.InfoContext(ctx, "Sent match report", "chat_id", chatID, "match_id", matchID)
	h.metrics.ObserveAction(actionReport, metrics.ResultOK)
}

// fail reports err to the user and records it. Errors are never retried.
func (h *Handler) fail(ctx context.Context, chatID int64, action string, matchID int64, err error) {
	result := resultFor(err)
	level := slog.LevelWarn
	if result == metrics.ResultError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "Bot action failed", "action", action, "chat_id", chatID, "match_id", matchID, "error", err)
	h.metrics.ObserveAction(action, result)
	h.send(ctx, chatID, userMessage(err, matchID))
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.messenger.SendText(ctx, chatID, text); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if err := h.messenger.AnswerCallback(ctx, callbackID, text); err != nil {
		h.logger.WarnContext(ctx, "Failed to answer callback", "callback_id", callbackID, "error", err)
	}
}

func (h *Handler) recoverPanic(ctx context.Context, action string, chatID int64) {
	r := recover()
	if r == nil {
		return
	}
	h.logger.ErrorContext(ctx, "Recovered from handler panic",
		"action", action,
		"chat_id", chatID,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()))
	h.metrics.ObserveAction(action, metrics.ResultError)
	h.send(ctx, chatID, msgInternal)
}

// reportButtons builds one "Report <id>" button per match, in match order.
func reportButtons(matches []models.Match) []Button {
	buttons := make([]Button, 0, len(matches))
	for _, m := range matches {
		id := strconv.FormatInt(m.ID, 10)
		buttons = append(buttons, Button{Text: "Report " + id, Data: reportPrefix + id})
	}
	return buttons
}

func parseMatchID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("match id must be positive: %d", id)
	}
	return id, nil
}

func userMessage(err error, matchID int64) string {
	var notFound *soccerdata.NotFoundError
	var malformed *report.MalformedDataError
	var upstream *soccerdata.UpstreamError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Match %d was not found.", notFound.MatchID)
	case errors.As(err, &malformed):
		return fmt.Sprintf("Match %d data is incomplete (missing %s).", matchID, malformed.Field)
	case errors.As(err, &upstream):
		return msgUpstream
	}
	return msgInternal
}

func resultFor(err error) string {
	var notFound *soccerdata.NotFoundError
	var malformed *report.MalformedDataError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &notFound):
		return metrics.ResultNotFound
	case errors.As(err, &malformed):
		return metrics.ResultMalformed
	}
	return metrics.ResultError
}
