package notify

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// emailNotifier sends HTML digests over SMTP with STARTTLS.
type emailNotifier struct {
	cfg config.Email
}

func newEmailNotifier(cfg config.Email) (*emailNotifier, error) {
	if cfg.SMTPServer == "" || cfg.SenderEmail == "" || cfg.RecipientEmail == "" {
		return nil, fmt.Errorf("email notifier requires smtp_server, sender_email, recipient_email")
	}
	return &emailNotifier{cfg: cfg}, nil
}

func (e *emailNotifier) Send(_ context.Context, jobs []*types.JobRecord, stats *store.Stats) error {
	if len(jobs) == 0 {
		return nil
	}
	subject := fmt.Sprintf("🤖 %d New Job Match%s — %s",
		len(jobs), pluralES(len(jobs)), time.Now().Format("Jan 02"))
	body := e.buildAlertHTML(jobs, stats)
	if err := e.deliver(subject, body); err != nil {
		return fmt.Errorf("email notification failed: %w", err)
	}
	log.Printf("[notify] email sent to %s", e.cfg.RecipientEmail)
	return nil
}

func (e *emailNotifier) SendWeeklySummary(_ context.Context, s *store.WeeklySummary) error {
	subject := fmt.Sprintf("📅 Weekly Job Search Summary — %s to %s",
		s.WeekStart.Format("January 02, 2006"), s.WeekEnd.Format("January 02, 2006"))
	if err := e.deliver(subject, e.buildWeeklyHTML(s)); err != nil {
		return fmt.Errorf("weekly email failed: %w", err)
	}
	log.Printf("[notify] weekly summary email sent to %s", e.cfg.RecipientEmail)
	return nil
}

// recipients splits the comma-separated recipient list.
func (e *emailNotifier) recipients() []string {
	var out []string
	for _, r := range strings.Split(e.cfg.RecipientEmail, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (e *emailNotifier) deliver(subject, htmlBody string) error {
	recipients := e.recipients()

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPServer, e.cfg.SMTPPort)
	auth := smtp.PlainAuth("", e.cfg.SenderEmail, e.cfg.SenderPassword, e.cfg.SMTPServer)
	return smtp.SendMail(addr, auth, e.cfg.SenderEmail, recipients, []byte(msg.String()))
}

func (e *emailNotifier) buildAlertHTML(jobs []*types.JobRecord, stats *store.Stats) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:800px;margin:0 auto;">`)
	fmt.Fprintf(&b, `<div style="background:#2c3e50;color:white;padding:20px;border-radius:8px 8px 0 0;">
		<h2 style="margin:0;">🤖 Job Search Agent</h2>
		<p style="margin:5px 0 0;opacity:0.8;">%d new matching job(s) found — %s</p></div>`,
		len(jobs), time.Now().Format("January 02, 2006"))

	groups := groupJobs(jobs)
	for _, category := range sortedCategories(groups) {
		platforms := groups[category]
		total := countJobs(platforms)
		fmt.Fprintf(&b, `<div style="margin-top:15px;">
			<div style="background:#34495e;color:white;padding:12px 15px;font-weight:bold;border-radius:6px 6px 0 0;">%s (%d job%s)</div>`,
			html.EscapeString(strings.ToUpper(category)), total, plural(total))

		for _, platform := range platformOrder {
			companies, ok := platforms[platform]
			if !ok {
				continue
			}
			label, ok := platformLabels[platform]
			if !ok {
				label = platformLabel{"🌐", platform}
			}
			platTotal := 0
			for _, cjobs := range companies {
				platTotal += len(cjobs)
			}
			fmt.Fprintf(&b, `<div style="margin:5px 0 0 15px;">
				<div style="background:#7f8c8d;color:white;padding:6px 12px;font-size:13px;font-weight:bold;">%s %s (%d job%s)</div>`,
				label.icon, html.EscapeString(label.label), platTotal, plural(platTotal))

			for _, company := range sortedCompanies(companies) {
				cjobs := companies[company]
				fmt.Fprintf(&b, `<div style="margin:3px 0 8px 10px;">
					<div style="padding:5px 10px;font-weight:bold;background:#ecf0f1;">%s (%d job%s)</div>
					<table style="width:100%%;border-collapse:collapse;background:white;">`,
					html.EscapeString(company), len(cjobs), plural(len(cjobs)))

				for _, job := range cjobs {
					visa := `<span style="color:#27ae60;" title="Visa keywords checked">✅</span>`
					if job.VisaUnverified {
						visa = `<span style="color:#e74c3c;" title="Visa status unverified">⚠️</span>`
					}
					title := html.EscapeString(job.Title)
					if job.URL != "" {
						title = fmt.Sprintf(`<a href="%s" style="color:#2c3e50;text-decoration:none;">%s</a>`,
							html.EscapeString(job.URL), title)
					}
					fmt.Fprintf(&b, `<tr>
						<td style="padding:5px 8px;border-bottom:1px solid #eee;"><strong>%s</strong></td>
						<td style="padding:5px 8px;border-bottom:1px solid #eee;color:#95a5a6;font-size:11px;">%s</td>
						<td style="padding:5px 8px;border-bottom:1px solid #eee;color:#7f8c8d;">%s</td>
						<td style="padding:5px 8px;border-bottom:1px solid #eee;text-align:center;">
							<span style="background:%s;color:white;padding:2px 7px;border-radius:10px;font-size:12px;">%v</span></td>
						<td style="padding:5px 8px;border-bottom:1px solid #eee;text-align:center;">%s</td>
					</tr>`,
						title,
						html.EscapeString(displayID(job)),
						html.EscapeString(orNA(job.Location)),
						scoreColor(job.RelevanceScore),
						job.RelevanceScore,
						visa)
				}
				b.WriteString(`</table></div>`)
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`<div style="background:#f0f0f0;padding:10px 15px;font-size:11px;color:#7f8c8d;margin-top:5px;">
		⚠️ = Visa/sponsorship status unverified &nbsp;|&nbsp; ✅ = Description fetched, visa keywords checked</div>`)
	if stats != nil {
		fmt.Fprintf(&b, `<div style="background:#f8f9fa;padding:15px;border-radius:0 0 8px 8px;font-size:12px;color:#95a5a6;">
			📊 %d jobs tracked across %d companies</div>`,
			stats.TotalJobsTracked, stats.UniqueCompanies)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (e *emailNotifier) buildWeeklyHTML(s *store.WeeklySummary) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:700px;margin:0 auto;">`)
	fmt.Fprintf(&b, `<div style="background:#2c3e50;color:white;padding:20px;border-radius:8px 8px 0 0;">
		<h2 style="margin:0;">📅 Weekly Job Search Summary</h2>
		<p style="margin:5px 0 0;opacity:0.8;">%s — %s</p></div>`,
		s.WeekStart.Format("January 02, 2006"), s.WeekEnd.Format("January 02, 2006"))

	fmt.Fprintf(&b, `<div style="background:#ecf0f1;padding:15px;text-align:center;">
		<strong style="font-size:24px;">%d</strong> new jobs &nbsp;|&nbsp;
		<strong style="font-size:24px;">%d</strong> runs &nbsp;|&nbsp;
		<strong style="font-size:24px;">%d</strong> active apps &nbsp;|&nbsp;
		<strong style="font-size:24px;">%d</strong> errors</div>`,
		len(s.NewJobs), s.RunStats.Runs, len(s.ActiveApps), s.RunStats.TotalErrors)

	if len(s.TopJobs) > 0 {
		b.WriteString(`<div style="background:white;padding:15px;">
			<h3 style="color:#2c3e50;border-bottom:2px solid #3498db;padding-bottom:5px;">⭐ Top Scoring Jobs</h3>
			<table style="width:100%;border-collapse:collapse;">`)
		for _, j := range limitJobs(s.TopJobs, 10) {
			fmt.Fprintf(&b, `<tr>
				<td style="padding:8px 12px;border-bottom:1px solid #eee;">
					<a href="%s" style="color:#2c3e50;text-decoration:none;"><strong>%s</strong></a><br>
					<span style="color:#7f8c8d;">🏢 %s | 📍 %s</span></td>
				<td style="padding:8px;text-align:center;border-bottom:1px solid #eee;">
					<span style="background:%s;color:white;padding:3px 8px;border-radius:10px;">%.0f</span></td>
			</tr>`,
				html.EscapeString(orDefault(j.URL, "#")),
				html.EscapeString(j.Title),
				html.EscapeString(j.Company),
				html.EscapeString(orNA(j.Location)),
				scoreColor(j.RelevanceScore),
				j.RelevanceScore)
		}
		b.WriteString(`</table></div>`)
	}

	if len(s.JobsByCompany) > 0 {
		b.WriteString(`<div style="background:#f8f9fa;padding:15px;">
			<h3 style="color:#2c3e50;border-bottom:2px solid #27ae60;padding-bottom:5px;">📋 New Jobs by Company</h3>
			<table style="width:100%;border-collapse:collapse;">`)
		for _, row := range limitCounts(s.JobsByCompany, 15) {
			fmt.Fprintf(&b, `<tr><td style="padding:6px 12px;">%s</td>
				<td style="padding:6px 12px;text-align:center;"><strong>%d</strong></td></tr>`,
				html.EscapeString(row.Name), row.Count)
		}
		b.WriteString(`</table></div>`)
	}

	b.WriteString(`<div style="background:white;padding:15px;">
		<h3 style="color:#2c3e50;border-bottom:2px solid #9b59b6;padding-bottom:5px;">📝 Application Pipeline</h3>`)
	if len(s.ActiveApps) > 0 {
		b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
		for i, a := range s.ActiveApps {
			if i == 10 {
				break
			}
			fmt.Fprintf(&b, `<tr>
				<td style="padding:6px 12px;border-bottom:1px solid #eee;">%s<br><span style="color:#7f8c8d;">%s</span></td>
				<td style="padding:6px;text-align:center;border-bottom:1px solid #eee;">%s</td>
				<td style="padding:6px;text-align:center;border-bottom:1px solid #eee;color:#7f8c8d;font-size:12px;">%s</td>
			</tr>`,
				html.EscapeString(a.Title),
				html.EscapeString(a.Company),
				html.EscapeString(a.Status),
				a.AppliedDate.Format("2006-01-02"))
		}
		b.WriteString(`</table>`)
	} else {
		b.WriteString(`<p style="color:#95a5a6;">No applications tracked yet. Use: jobscout apply --company X --title Y</p>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div style="background:#2c3e50;color:white;padding:12px;border-radius:0 0 8px 8px;font-size:12px;text-align:center;">
		🤖 Job Search Agent — Automated Weekly Digest</div></div>`)
	return b.String()
}

func scoreColor(score float64) string {
	switch {
	case score >= 20:
		return "#27ae60"
	case score >= 10:
		return "#f39c12"
	default:
		return "#95a5a6"
	}
}
