package notifier

import (
	"context"
	"fmt"
	"strconv"

	"github.com/LavaJover/shvark-deposit-service/internal/domain"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramNotifier delivers deposit confirmations as Telegram DMs.
type TelegramNotifier struct {
	bot *bot.Bot
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	tgBot, err := bot.New(botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &TelegramNotifier{bot: tgBot}, nil
}

func (t *TelegramNotifier) SendDepositConfirmation(ctx context.Context, n domain.DepositNotification) error {
	text := fmt.Sprintf(
		"✅ <b>Deposit Confirmed!</b>\n\n<b>%s %s</b> (≈$%.2f)\n\nYour balance has been credited. Good luck! 🎰",
		formatAmount(n.Amount), n.Currency, n.AmountUSD,
	)

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.TelegramID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// formatAmount trims trailing zeros so 0.00020000 BTC reads as 0.0002.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
