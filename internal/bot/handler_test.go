package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Vodeneev/matchbot/internal/pkg/metrics"
	"github.com/Vodeneev/matchbot/internal/pkg/models"
	"github.com/Vodeneev/matchbot/internal/pkg/optional"
	"github.com/Vodeneev/matchbot/internal/pkg/soccerdata"
)

func upcomingMatches() []models.Match {
	kickoff := time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)
	return []models.Match{
		{ID: 11, HomeTeam: "Arsenal", AwayTeam: "Chelsea", Kickoff: kickoff, LeagueID: 228, LeagueName: "Premier League", Country: "england", Stage: "Regular Season"},
		{ID: 21, HomeTeam: "Inter", AwayTeam: "Milan", Kickoff: kickoff, LeagueID: 198, LeagueName: "Serie A", Country: "italy", Stage: "Regular Season"},
		{ID: 12, HomeTeam: "Leeds", AwayTeam: "Everton", Kickoff: kickoff, LeagueID: 228, LeagueName: "Premier League", Country: "england", Stage: "Regular Season"},
		{ID: 13, HomeTeam: "Fulham", AwayTeam: "Brentford", Kickoff: kickoff, LeagueID: 228, LeagueName: "Premier League", Country: "england", Stage: "Regular Season"},
	}
}

func reportDetail(id int64) models.MatchDetail {
	return models.MatchDetail{
		ID:      optional.Some(id),
		Home:    optional.Some(models.Team{Name: "Arsenal"}),
		Away:    optional.Some(models.Team{Name: "Chelsea"}),
		League:  optional.Some(models.League{ID: 228, Name: "Premier League"}),
		Kickoff: optional.Some(time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)),
	}
}

func TestHandleMessage_Help(t *testing.T) {
	for _, cmd := range []string{"/start", "/help", "/HELP@matchbot", "hello"} {
		msgr := &fakeMessenger{}
		h := newTestHandler(&fakeSource{}, msgr, Options{})

		h.HandleMessage(context.Background(), 1, cmd)

		sent := msgr.sent()
		if len(sent) != 1 || sent[0].text != helpText {
			t.Errorf("%s: expected help text, got %+v", cmd, sent)
		}
	}
}

func TestHandleMessage_UnknownCommand(t *testing.T) {
	msgr := &fakeMessenger{}
	h := newTestHandler(&fakeSource{}, msgr, Options{})

	h.HandleMessage(context.Background(), 1, "/odds")

	sent := msgr.sent()
	if len(sent) != 1 || sent[0].text != msgUnknownCommand {
		t.Errorf("expected unknown command reply, got %+v", sent)
	}
}

func TestHandleMessage_IgnoresBlank(t *testing.T) {
	msgr := &fakeMessenger{}
	h := newTestHandler(&fakeSource{}, msgr, Options{})

	h.HandleMessage(context.Background(), 1, "   ")

	if sent := msgr.sent(); len(sent) != 0 {
		t.Errorf("expected no reply, got %+v", sent)
	}
}

func TestUpcoming_OneMessagePerLeague(t *testing.T) {
	src := &fakeSource{matches: upcomingMatches()}
	msgr := &fakeMessenger{}
	h := newTestHandler(src, msgr, Options{})

	h.HandleMessage(context.Background(), 42, "/upcoming")

	sent := msgr.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(sent), sent)
	}

	if !strings.HasPrefix(sent[0].text, "Serie A (Italy) | League ID: 198") {
		t.Errorf("expected league 198 first, got:\n%s", sent[0].text)
	}
	if !strings.HasPrefix(sent[1].text, "Premier League (England) | League ID: 228") {
		t.Errorf("expected league 228 second, got:\n%s", sent[1].text)
	}

	want := []Button{
		{Text: "Report 11", Data: "r:11"},
		{Text: "Report 12", Data: "r:12"},
		{Text: "Report 13", Data: "r:13"},
	}
	got := sent[1].buttons
	if len(got) != len(want) {
		t.Fatalf("expected %d buttons, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("button %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	for _, m := range sent {
		if m.chatID != 42 {
			t.Errorf("message sent to chat %d", m.chatID)
		}
	}
}

func TestUpcoming_Window(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   soccerdata.Window
	}{
		{"unbounded", 0, soccerdata.Window{}},
		{"three days", 72 * time.Hour, soccerdata.Window{To: fixedNow.Add(72 * time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			h := newTestHandler(src, &fakeMessenger{}, Options{UpcomingWindow: tt.window})

			h.HandleMessage(context.Background(), 1, "/upcoming")

			if len(src.windows) != 1 {
				t.Fatalf("expected 1 fetch, got %d", len(src.windows))
			}
			if got := src.windows[0]; !got.From.Equal(tt.want.From) || !got.To.Equal(tt.want.To) {
				t.Errorf("window = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUpcoming_Empty(t *testing.T) {
	msgr := &fakeMessenger{}
	h := newTestHandler(&fakeSource{}, msgr, Options{})

	h.HandleMessage(context.Background(), 1, "/upcoming")

	sent := msgr.sent()
	if len(sent) != 1 || sent[0].text != msgNoUpcoming {
		t.Errorf("expected empty notice, got %+v", sent)
	}
}

func TestUpcoming_UpstreamError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	src := &fakeSource{listErr: &soccerdata.UpstreamError{Endpoint: "match-previews-upcoming/", StatusCode: 502}}
	msgr := &fakeMessenger{}
	h := newTestHandler(src, msgr, Options{Metrics: m})

	h.HandleMessage(context.Background(), 1, "/upcoming")

	sent := msgr.sent()
	if len(sent) != 1 || sent[0].text != msgUpstream {
		t.Errorf("expected upstream message, got %+v", sent)
	}
	if got := testutil.ToFloat64(m.BotActions.WithLabelValues(actionUpcoming, metrics.ResultError)); got != 1 {
		t.Errorf("upcoming error count = %v, want 1", got)
	}
}

func TestUpcoming_ChunksLongLeague(t *testing.T) {
	var matches []models.Match
	for i := 1; i <= 30; i++ {
		matches = append(matches, models.Match{ID: int64(i), HomeTeam: "Home", AwayTeam: "Away", LeagueID: 228, LeagueName: "Premier League"})
	}
	msgr := &fakeMessenger{}
	h := newTestHandler(&fakeSource{matches: matches}, msgr, Options{MaxMessageLen: 500})

	h.HandleMessage(context.Background(), 1, "/upcoming")

	sent := msgr.sent()
	if len(sent) < 2 {
		t.Fatalf("expected several chunks, got %d", len(sent))
	}
	for i, m := range sent {
		if len([]rune(m.text)) > 500 {
			t.Errorf("chunk %d has %d runes", i, len([]rune(m.text)))
		}
		last := i == len(sent)-1
		if last && len(m.buttons) != 30 {
			t.Errorf("last chunk should carry all 30 buttons, got %d", len(m.buttons))
		}
		if !last && len(m.buttons) != 0 {
			t.Errorf("chunk %d should have no buttons", i)
		}
	}
}

func TestHandleCallback_SendsReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	src := &fakeSource{details: map[int64]models.MatchDetail{1001: reportDetail(1001)}}
	msgr := &fakeMessenger{}
	h := newTestHandler(src, msgr, Options{Metrics: m})

	h.HandleCallback(context.Background(), 42, "cb-1", "r:1001")

	if len(msgr.answers) != 1 || msgr.answers[0] != (answeredCallback{id: "cb-1", text: msgBuildingReport}) {
		t.Errorf("unexpected callback answers: %+v", msgr.answers)
	}
	sent := msgr.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %+v", sent)
	}
	if !strings.HasPrefix(sent[0].text, "Arsenal (Home) vs Chelsea (Away)\nMatch ID: 1001") {
		t.Errorf("unexpected report:\n%s", sent[0].text)
	}
	if got := testutil.ToFloat64(m.BotActions.WithLabelValues(actionReport, metrics.ResultOK)); got != 1 {
		t.Errorf("report ok count = %v, want 1", got)
	}
}

func TestHandleCallback_InvalidPayload(t *testing.T) {
	tests := []struct {
		data   string
		answer string
	}{
		{"r:abc", msgInvalidMatchID},
		{"r:-4", msgInvalidMatchID},
		{"r:", msgInvalidMatchID},
		{"x:12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			src := &fakeSource{}
			msgr := &fakeMessenger{}
			h := newTestHandler(src, msgr, Options{})

			h.HandleCallback(context.Background(), 1, "cb", tt.data)

			if len(msgr.answers) != 1 || msgr.answers[0].text != tt.answer {
				t.Errorf("answers = %+v, want %q", msgr.answers, tt.answer)
			}
			if len(src.detailCalls) != 0 {
				t.Errorf("unexpected fetch for %q", tt.data)
			}
			if sent := msgr.sent(); len(sent) != 0 {
				t.Errorf("unexpected messages: %+v", sent)
			}
		})
	}
}

func TestReport_ErrorMessages(t *testing.T) {
	incomplete := reportDetail(5)
	incomplete.Kickoff = optional.None[time.Time]()

	tests := []struct {
		name   string
		src    *fakeSource
		id     string
		want   string
		result string
	}{
		{
			name:   "not found",
			src:    &fakeSource{},
			id:     "77",
			want:   "Match 77 was not found.",
			result: metrics.ResultNotFound,
		},
		{
			name:   "malformed",
			src:    &fakeSource{details: map[int64]models.MatchDetail{5: incomplete}},
			id:     "5",
			want:   "Match 5 data is incomplete (missing kickoff time).",
			result: metrics.ResultMalformed,
		},
		{
			name:   "upstream",
			src:    &fakeSource{detailErr: &soccerdata.UpstreamError{Endpoint: "match/", Err: errors.New("timeout")}},
			id:     "9",
			want:   msgUpstream,
			result: metrics.ResultError,
		},
		{
			name:   "unexpected",
			src:    &fakeSource{detailErr: errors.New("boom")},
			id:     "9",
			want:   msgInternal,
			result: metrics.ResultError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			msgr := &fakeMessenger{}
			h := newTestHandler(tt.src, msgr, Options{Metrics: m})

			h.HandleMessage(context.Background(), 1, "/report "+tt.id)

			sent := msgr.sent()
			if len(sent) != 1 || sent[0].text != tt.want {
				t.Errorf("messages = %+v, want %q", sent, tt.want)
			}
			if got := testutil.ToFloat64(m.BotActions.WithLabelValues(actionReport, tt.result)); got != 1 {
				t.Errorf("%s count = %v, want 1", tt.result, got)
			}
		})
	}
}

func TestReport_Usage(t *testing.T) {
	for _, text := range []string{"/report", "/report abc"} {
		src := &fakeSource{}
		msgr := &fakeMessenger{}
		h := newTestHandler(src, msgr, Options{})

		h.HandleMessage(context.Background(), 1, text)

		sent := msgr.sent()
		if len(sent) != 1 || sent[0].text != msgReportUsage {
			t.Errorf("%q: messages = %+v", text, sent)
		}
		if len(src.detailCalls) != 0 {
			t.Errorf("%q: unexpected fetch", text)
		}
	}
}

func TestReport_Chunked(t *testing.T) {
	d := reportDetail(1)
	var events []models.MatchEvent
	for i := 0; i < 90; i++ {
		events = append(events, models.MatchEvent{
			Minute: models.ParseMinute("10"),
			Kind:   models.EventOther,
			Type:   "long_event_name_for_testing_chunking",
			Player: optional.Some(strings.Repeat("x", 20)),
		})
	}
	d.Events = events
	src := &fakeSource{details: map[int64]models.MatchDetail{1: d}}
	msgr := &fakeMessenger{}
	h := newTestHandler(src, msgr, Options{MaxMessageLen: 400})

	h.HandleMessage(context.Background(), 1, "/report 1")

	sent := msgr.sent()
	if len(sent) < 2 {
		t.Fatalf("expected several chunks, got %d", len(sent))
	}
	var parts []string
	for i, m := range sent {
		if n := len([]rune(m.text)); n > 400 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
		parts = append(parts, m.text)
	}
	joined := strings.Join(parts, "\n")
	if strings.Count(joined, "Long event name for testing chunking") != 90 {
		t.Errorf("events lost while chunking")
	}
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	msgr := &fakeMessenger{}
	h := newTestHandler(&fakeSource{panicOnList: true}, msgr, Options{Metrics: m})

	h.HandleMessage(context.Background(), 1, "/upcoming")

	sent := msgr.sent()
	if len(sent) != 1 || sent[0].text != msgInternal {
		t.Errorf("expected internal error message, got %+v", sent)
	}
	if got := testutil.ToFloat64(m.BotActions.WithLabelValues("message", metrics.ResultError)); got != 1 {
		t.Errorf("panic count = %v, want 1", got)
	}
}
