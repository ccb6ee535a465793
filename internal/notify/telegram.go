package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// Telegram caps messages at 4096 chars; stay under it with headroom.
const telegramChunkLimit = 3800

// telegramNotifier delivers alerts through a Telegram bot.
type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func newTelegramNotifier(cfg config.Telegram) (*telegramNotifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram notifier requires bot_token and chat_id")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &telegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *telegramNotifier) Send(_ context.Context, jobs []*types.JobRecord, _ *store.Stats) error {
	if len(jobs) == 0 {
		return nil
	}

	header := fmt.Sprintf("🤖 *Job Alert — %s*\nFound *%d* new match%s!\n\n",
		time.Now().Format("Jan 02"), len(jobs), pluralES(len(jobs)))

	var messages []string
	current := header
	for i, job := range jobs {
		entry := fmt.Sprintf(
			"*%d. %s*\n🏢 %s  📍 %s\n📊 Score: %v\n[Apply →](%s)\n\n",
			i+1,
			tgEscape(job.Title),
			tgEscape(job.Company),
			tgEscape(orNA(job.Location)),
			job.RelevanceScore,
			orDefault(job.URL, "#"),
		)
		if len(current)+len(entry) > telegramChunkLimit {
			messages = append(messages, current)
			current = entry
		} else {
			current += entry
		}
	}
	if current != header {
		messages = append(messages, current)
	}

	for _, text := range messages {
		if err := t.sendMarkdown(text); err != nil {
			return fmt.Errorf("telegram notification failed: %w", err)
		}
	}
	log.Printf("[notify] telegram alert sent in %d message(s)", len(messages))
	return nil
}

func (t *telegramNotifier) SendWeeklySummary(_ context.Context, s *store.WeeklySummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Weekly Summary — %s to %s*\n\n",
		s.WeekStart.Format("Jan 02"), s.WeekEnd.Format("Jan 02"))
	fmt.Fprintf(&b, "🆕 New jobs: *%d*\n", len(s.NewJobs))
	fmt.Fprintf(&b, "🔄 Runs: *%d*\n", s.RunStats.Runs)
	fmt.Fprintf(&b, "📝 Active applications: *%d*\n\n", len(s.ActiveApps))

	if len(s.TopJobs) > 0 {
		b.WriteString("⭐ *Top Jobs:*\n")
		for _, j := range limitJobs(s.TopJobs, 7) {
			fmt.Fprintf(&b, "  \\[%.0f\\] %s @ %s\n",
				j.RelevanceScore, tgEscape(j.Title), tgEscape(j.Company))
		}
	}
	if len(s.ActiveApps) > 0 {
		b.WriteString("\n📝 *Application Pipeline:*\n")
		for i, a := range s.ActiveApps {
			if i == 7 {
				break
			}
			fmt.Fprintf(&b, "  %s @ %s \\[%s\\]\n",
				tgEscape(a.Title), tgEscape(a.Company), a.Status)
		}
	}

	if err := t.sendMarkdown(b.String()); err != nil {
		return fmt.Errorf("weekly telegram summary failed: %w", err)
	}
	log.Printf("[notify] weekly telegram summary sent")
	return nil
}

func (t *telegramNotifier) sendMarkdown(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

var tgEscaper = strings.NewReplacer(
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// tgEscape escapes Telegram Markdown control characters in user text.
func tgEscape(text string) string {
	return tgEscaper.Replace(text)
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
