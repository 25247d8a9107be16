package notifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"acquisition_desk/internal/domain/entity"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegramBot sends through httpClient so outgoing calls share the
// service's request logging and masking.
func NewTelegramBot(token string, chatID int64, httpClient *http.Client, opts ...telego.BotOption) (*TelegramBot, error) {
	opts = append([]telego.BotOption{
		telego.WithHTTPClient(httpClient),
		telego.WithDiscardLogger(),
	}, opts...)

	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (b *TelegramBot) NotifyReview(ctx context.Context, alert entity.ReviewAlert) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatReview(alert),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
