package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/matchbot/internal/pkg/config"
)

// TelegramMessenger sends through the Bot API. Sends are serialised and spaced
// at least interval apart.
type TelegramMessenger struct {
	api      *tgbotapi.BotAPI
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	lastSend time.Time
}

func NewTelegramMessenger(api *tgbotapi.BotAPI, interval time.Duration, logger *slog.Logger) *TelegramMessenger {
	if interval < 0 {
		interval = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramMessenger{api: api, interval: interval, logger: logger}
}

func (t *TelegramMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	return t.send(ctx, msg)
}

func (t *TelegramMessenger) SendWithButtons(ctx context.Context, chatID int64, text string, buttons []Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if len(buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(buttons)
	}
	return t.send(ctx, msg)
}

// AnswerCallback stops the client's loading spinner. It is not a chat message
// and skips the send interval.
func (t *TelegramMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elapsed := time.Since(t.lastSend); elapsed < t.interval {
		wait := t.interval - elapsed
		t.logger.DebugContext(ctx, "Telegram send: waiting for rate limit", "wait_time", wait)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	t.lastSend = time.Now()
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// inlineKeyboard lays buttons out buttonsPerRow to a row.
func inlineKeyboard(buttons []Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(buttons); i += buttonsPerRow {
		end := min(i+buttonsPerRow, len(buttons))
		row := make([]tgbotapi.InlineKeyboardButton, 0, end-i)
		for _, b := range buttons[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Bot runs the long-polling update loop and hands each update to the Handler
// on its own goroutine.
type Bot struct {
	api           *tgbotapi.BotAPI
	handler       *Handler
	messenger     Messenger
	allowed       map[int64]struct{}
	updateTimeout int
	logger        *slog.Logger
	wg            sync.WaitGroup
}

func NewBot(api *tgbotapi.BotAPI, handler *Handler, messenger Messenger, cfg config.TelegramConfig, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[int64]struct{}, len(cfg.AllowedUserIDs))
	for _, id := range cfg.AllowedUserIDs {
		allowed[id] = struct{}{}
	}
	return &Bot{
		api:           api,
		handler:       handler,
		messenger:     messenger,
		allowed:       allowed,
		updateTimeout: cfg.UpdateTimeout,
		logger:        logger,
	}
}

// RegisterCommands publishes the command list shown in Telegram clients.
func (b *Bot) RegisterCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "upcoming", Description: "Upcoming matches (filtered)"},
		tgbotapi.BotCommand{Command: "report", Description: "Report for a match id"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is cancelled, then waits for in-flight handlers.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegram bot started", "account", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handle(ctx, update)
			}()
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		if msg.Chat == nil {
			return
		}
		if !b.isAllowed(msg.From) {
			b.deny(ctx, msg.Chat.ID, msg.From)
			return
		}
		b.handler.HandleMessage(ctx, msg.Chat.ID, msg.Text)
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.Message == nil || q.Message.Chat == nil {
			return
		}
		if !b.isAllowed(q.From) {
			if err := b.messenger.AnswerCallback(ctx, q.ID, msgAccessDenied); err != nil {
				b.logger.WarnContext(ctx, "Failed to answer callback", "error", err)
			}
			return
		}
		b.handler.HandleCallback(ctx, q.Message.Chat.ID, q.ID, q.Data)
	}
}

// isAllowed applies the optional user allow-list. An empty list admits everyone.
func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	if len(b.allowed) == 0 {
		return true
	}
	if user == nil {
		return false
	}
	_, ok := b.allowed[user.ID]
	return ok
}

func (b *Bot) deny(ctx context.Context, chatID int64, user *tgbotapi.User) {
	var userID int64
	if user != nil {
		userID = user.ID
	}
	b.logger.WarnContext(ctx, "Rejected message from user not in allow-list", "user_id", userID, "chat_id", chatID)
	if err := b.messenger.SendText(ctx, chatID, msgAccessDenied); err != nil {
		b.logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}
