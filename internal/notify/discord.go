package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// Discord allows at most 10 embeds per webhook message.
const discordEmbedLimit = 10

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title  string              `json:"title,omitempty"`
	URL    string              `json:"url,omitempty"`
	Color  int                 `json:"color"`
	Fields []discordEmbedField `json:"fields"`
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

// discordNotifier posts alerts to a Discord webhook.
type discordNotifier struct {
	webhookURL string
	client     *fetch.Client
}

func newDiscordNotifier(cfg config.Discord, client *fetch.Client) *discordNotifier {
	return &discordNotifier{webhookURL: cfg.WebhookURL, client: client}
}

func (d *discordNotifier) Send(ctx context.Context, jobs []*types.JobRecord, _ *store.Stats) error {
	if len(jobs) == 0 {
		return nil
	}

	var embeds []discordEmbed
	for _, job := range jobs {
		if len(embeds) == discordEmbedLimit {
			break
		}
		embeds = append(embeds, discordEmbed{
			Title: job.Title,
			URL:   job.URL,
			Color: scoreColorInt(job.RelevanceScore),
			Fields: []discordEmbedField{
				{Name: "🏢 Company", Value: job.Company, Inline: true},
				{Name: "📍 Location", Value: orNA(job.Location), Inline: true},
				{Name: "📊 Score", Value: fmt.Sprintf("%v", job.RelevanceScore), Inline: true},
			},
		})
	}

	payload := discordPayload{
		Content: fmt.Sprintf("🤖 **Job Alert** — %d new match%s!", len(jobs), pluralES(len(jobs))),
		Embeds:  embeds,
	}
	if err := d.client.PostJSON(ctx, d.webhookURL, payload, nil, nil); err != nil {
		return fmt.Errorf("discord notification failed: %w", err)
	}
	log.Printf("[notify] discord alert sent with %d embed(s)", len(embeds))
	return nil
}

func (d *discordNotifier) SendWeeklySummary(ctx context.Context, s *store.WeeklySummary) error {
	payload := discordPayload{
		Content: fmt.Sprintf("📅 **Weekly Summary** — %s to %s",
			s.WeekStart.Format("Jan 02"), s.WeekEnd.Format("Jan 02")),
		Embeds: []discordEmbed{{
			Color: 0x3498db,
			Fields: []discordEmbedField{
				{Name: "🆕 New Jobs", Value: fmt.Sprint(len(s.NewJobs)), Inline: true},
				{Name: "🔄 Runs", Value: fmt.Sprint(s.RunStats.Runs), Inline: true},
				{Name: "📝 Active Apps", Value: fmt.Sprint(len(s.ActiveApps)), Inline: true},
			},
		}},
	}
	if err := d.client.PostJSON(ctx, d.webhookURL, payload, nil, nil); err != nil {
		return fmt.Errorf("weekly discord summary failed: %w", err)
	}
	log.Printf("[notify] weekly discord summary sent")
	return nil
}

func scoreColorInt(score float64) int {
	switch {
	case score >= 20:
		return 0x27ae60
	case score >= 10:
		return 0xf39c12
	default:
		return 0x95a5a6
	}
}
