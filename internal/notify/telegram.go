// Package notify contains transport adapters that deliver bus events to the
// outside world. The core stays transport-agnostic; adapters subscribe like
// any other observer.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/istehunt/hunt/internal/event"
	"github.com/istehunt/hunt/internal/hunt"
)

// StateReader is the read-only slice of the hunt service the announcer needs.
type StateReader interface {
	State(ctx context.Context, teamID string) (*hunt.TeamState, error)
}

// TelegramAnnouncer posts event milestones (team started, team finished) to
// a Telegram chat. Delivery is best-effort: a failed send is logged and
// dropped, like any other slow observer.
type TelegramAnnouncer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	reader StateReader
}

// NewTelegramAnnouncer creates an announcer for the given bot token and chat.
func NewTelegramAnnouncer(token string, chatID int64, reader StateReader) (*TelegramAnnouncer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	bot.Debug = false

	return &TelegramAnnouncer{bot: bot, chatID: chatID, reader: reader}, nil
}

// Run consumes bus events until ctx is cancelled or the channel closes.
func (a *TelegramAnnouncer) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.handle(ctx, e)
		}
	}
}

func (a *TelegramAnnouncer) handle(ctx context.Context, e event.Event) {
	switch e.Kind {
	case event.KindScoreboardReset:
		a.send("Scoreboard has been reset. Good luck everyone!")
	case event.KindScoreboardUpdate:
		if e.TeamID == "" {
			return
		}
		state, err := a.reader.State(ctx, e.TeamID)
		if err != nil {
			slog.Warn("announcer could not load team state", "error", err, "team", e.TeamID)
			return
		}
		switch {
		case state.FinishedAt != nil:
			a.send(fmt.Sprintf("🏁 %s finished the hunt! %d/%d locations cleared.", e.TeamID, state.CurrentIndex, state.Total))
		case state.CurrentIndex == 1:
			a.send(fmt.Sprintf("🚀 %s is on the move! First location cleared.", e.TeamID))
		}
	}
}

func (a *TelegramAnnouncer) send(text string) {
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		slog.Warn("telegram send failed", "error", err)
	}
}
