package bot

import (
	"context"
	"sync"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/models"
	"github.com/Vodeneev/matchbot/internal/pkg/soccerdata"
)

type sentMessage struct {
	chatID  int64
	text    string
	buttons []Button
}

type answeredCallback struct {
	id   string
	text string
}

type fakeMessenger struct {
	mu       sync.Mutex
	messages []sentMessage
	answers  []answeredCallback
	sendErr  error
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text})
	return f.sendErr
}

func (f *fakeMessenger) SendWithButtons(_ context.Context, chatID int64, text string, buttons []Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, buttons: buttons})
	return f.sendErr
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answeredCallback{id: callbackID, text: text})
	return nil
}

func (f *fakeMessenger) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.messages...)
}

type fakeSource struct {
	mu          sync.Mutex
	matches     []models.Match
	listErr     error
	details     map[int64]models.MatchDetail
	detailErr   error
	panicOnList bool
	windows     []soccerdata.Window
	detailCalls []int64
}

func (f *fakeSource) ListUpcoming(_ context.Context, window soccerdata.Window) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnList {
		panic("boom")
	}
	f.windows = append(f.windows, window)
	return f.matches, f.listErr
}

func (f *fakeSource) GetMatchDetail(_ context.Context, matchID int64) (models.MatchDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, matchID)
	if f.detailErr != nil {
		return models.MatchDetail{}, f.detailErr
	}
	d, ok := f.details[matchID]
	if !ok {
		return models.MatchDetail{}, &soccerdata.NotFoundError{MatchID: matchID}
	}
	return d, nil
}

var fixedNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestHandler(src *fakeSource, msgr *fakeMessenger, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewHandler(src, msgr, opts)
}
