package services

import (
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TimeLayout is how submission times are shown to administrators.
const TimeLayout = "15:04 02.01.2006"

// RecipientResult is the delivery outcome for one administrator.
type RecipientResult struct {
	AdminID int64
	Err     error // nil means delivered
}

// Delivered reports whether the administrator received the notification.
func (r RecipientResult) Delivered() bool {
	return r.Err == nil
}

// BroadcastReport summarizes one fan-out.
type BroadcastReport struct {
	Attempted int
	Delivered int
	Results   []RecipientResult
}

// Err is nil when at least one administrator was reached.
func (r BroadcastReport) Err() error {
	if r.Delivered > 0 {
		return nil
	}
	return domain.ErrNoRecipientsReachable
}

// BroadcastDispatcher forwards a submission to every administrator in turn.
// A failed recipient never stops the rest.
type BroadcastDispatcher struct {
	bot      ports.BotClientPort
	renderer *Renderer
	langs    LanguageResolver
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// NewBroadcastDispatcher creates a dispatcher sending at most ratePerSec
// messages per second. A non-positive rate disables limiting.
func NewBroadcastDispatcher(
	bot ports.BotClientPort,
	renderer *Renderer,
	langs LanguageResolver,
	ratePerSec float64,
	baseLogger *zerolog.Logger,
) *BroadcastDispatcher {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &BroadcastDispatcher{
		bot:      bot,
		renderer: renderer,
		langs:    langs,
		limiter:  rate.NewLimiter(limit, 1),
		log:      baseLogger.With().Str("component", "broadcast").Logger(),
	}
}

// Broadcast delivers sub to admins in order.
func (d *BroadcastDispatcher) Broadcast(ctx context.Context, sub domain.Submission, admins []int64) BroadcastReport {
	report := BroadcastReport{Results: make([]RecipientResult, 0, len(admins))}

	for _, adminID := range admins {
		report.Attempted++
		err := d.deliver(ctx, sub, adminID)
		if err != nil {
			d.log.Error().Err(err).
				Int64("admin_id", adminID).
				Int64("user_id", sub.UserID).
				Str("kind", string(sub.Kind)).
				Msg("Failed to deliver submission to admin")
			err = fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
		} else {
			report.Delivered++
		}
		report.Results = append(report.Results, RecipientResult{AdminID: adminID, Err: err})
	}

	d.log.Info().
		Int64("user_id", sub.UserID).
		Str("kind", string(sub.Kind)).
		Int("attempted", report.Attempted).
		Int("delivered", report.Delivered).
		Msg("Broadcast finished")
	return report
}

func (d *BroadcastDispatcher) deliver(ctx context.Context, sub domain.Submission, adminID int64) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	text := d.render(sub, d.langs.Language(adminID))
	if sub.IsText() {
		_, err := d.bot.SendMessage(ctx, ports.SendMessageParams{
			ChatID:    adminID,
			Text:      text,
			ParseMode: ports.ParseModeHTML,
		})
		return err
	}

	_, err := d.bot.SendFile(ctx, ports.SendFileParams{
		ChatID:    adminID,
		Kind:      fileKindOf(sub.Kind),
		FileID:    sub.FileID,
		Caption:   text,
		ParseMode: ports.ParseModeHTML,
	})
	return err
}

// render builds the administrator-facing text in lang.
func (d *BroadcastDispatcher) render(sub domain.Submission, lang string) string {
	username := sub.Display.Username
	if username == "" {
		username = "-"
	}
	fullName := sub.Display.FullName()
	if fullName == "" {
		fullName = "-"
	}
	// User-controlled values go into HTML templates.
	params := map[string]any{
		"username":  html.EscapeString(username),
		"full_name": html.EscapeString(fullName),
		"user_id":   sub.UserID,
	}

	if sub.IsText() {
		params["text"] = html.EscapeString(sub.Text)
		return d.renderer.Render(lang, "text_received", params)
	}

	fileName := sub.FileName
	if fileName == "" {
		fileName = "-"
	}
	params["file_name"] = html.EscapeString(fileName)
	params["time"] = submittedAt(sub).Format(TimeLayout)

	text := d.renderer.Render(lang, "file_received", params)
	if sub.FileSize > 0 {
		text += "\n" + d.renderer.Render(lang, "file_size", map[string]any{"size": FormatSize(sub.FileSize)})
	}
	return text
}

func submittedAt(sub domain.Submission) time.Time {
	if sub.SubmittedAt.IsZero() {
		return time.Now()
	}
	return sub.SubmittedAt
}

func fileKindOf(kind domain.PayloadKind) ports.FileKind {
	switch kind {
	case domain.PayloadPhoto:
		return ports.FilePhoto
	case domain.PayloadVideo:
		return ports.FileVideo
	case domain.PayloadAudio:
		return ports.FileAudio
	default:
		return ports.FileDocument
	}
}

// FormatSize renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
