package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taste-haven/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the subset of *tgbotapi.BotAPI used to post messages.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a short summary of every new order to an admin chat.
type Telegram struct {
	bot    sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authenticates the bot token and targets chatID. Every API
// call is bounded by timeout; a non-positive timeout uses DefaultTimeout.
func NewTelegram(token string, chatID int64, timeout time.Duration, logger zerolog.Logger) (*Telegram, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, logger), nil
}

func newTelegram(bot sender, chatID int64, logger zerolog.Logger) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger.With().Str("notifier", "telegram").Int64("chat_id", chatID).Logger(),
	}
}

// OrderPlaced sends the order summary.
func (t *Telegram) OrderPlaced(ctx context.Context, order *model.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, formatOrder(order))); err != nil {
		t.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to send order message")
		return fmt.Errorf("failed to send order message: %w", err)
	}

	t.logger.Debug().Str("order_id", order.ID).Msg("order message sent")
	return nil
}

// Close is a no-op; the bot holds no persistent connection.
func (t *Telegram) Close() error { return nil }

func formatOrder(order *model.Order) string {
	ev := NewEvent(order)

	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s, %s\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Address: %s\n", order.CustomerAddress)
	if order.SpecialInstructions != nil && *order.SpecialInstructions != "" {
		fmt.Fprintf(&b, "Notes: %s\n", *order.SpecialInstructions)
	}
	fmt.Fprintf(&b, "Items: %d\n", ev.ItemCount)
	fmt.Fprintf(&b, "Total: $%s", order.Total)
	return b.String()
}
