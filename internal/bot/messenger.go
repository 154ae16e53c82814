package bot

import "context"

// Button is an inline button under a message. Data is the callback payload.
type Button struct {
	Text string
	Data string
}

// Messenger is the chat boundary. Implementations must be safe for concurrent use.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendWithButtons(ctx context.Context, chatID int64, text string, buttons []Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
