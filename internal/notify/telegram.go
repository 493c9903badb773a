// Package notify sends a Telegram message for listings worth a ping:
// first-time listings whose ranking score clears the configured floor.
package notify

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"remotive-ranker/internal/store"
)

type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	minScore  float64
	maxPerRun int
}

func NewTelegramNotifier(token string, chatID int64, minScore float64, maxPerRun int) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:       bot,
		chatID:    chatID,
		minScore:  minScore,
		maxPerRun: maxPerRun,
	}, nil
}

// NotifyNew sends one message per qualifying listing, capped at
// maxPerRun. Listings arrive in rank order, so the cap keeps the best.
// Send failures log and continue; notification is best-effort.
func (t *TelegramNotifier) NotifyNew(fresh []store.RankedListing) {
	sent := 0
	for _, l := range fresh {
		if l.Score < t.minScore {
			continue
		}
		if sent >= t.maxPerRun {
			log.Printf("[notify] cap of %d reached, %d qualifying listings unsent", t.maxPerRun, len(fresh)-sent)
			return
		}
		if err := t.send(l); err != nil {
			log.Printf("[notify] send failed title=%q err=%v", l.Title, err)
			continue
		}
		sent++
	}
}

func (t *TelegramNotifier) send(l store.RankedListing) error {
	salary := l.Salary
	if salary == "" {
		salary = "not disclosed"
	}
	text := fmt.Sprintf(
		"<b>%s</b>\n%s — %s\nScore %.2f (posted %d day(s) ago, %d keyword hit(s))\nSalary: %s\n<a href=\"%s\">View listing</a>",
		html.EscapeString(l.Title),
		html.EscapeString(l.Company),
		html.EscapeString(l.Category),
		l.Score, l.DaysOld, l.KeywordMatches,
		html.EscapeString(salary),
		l.URL,
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}
