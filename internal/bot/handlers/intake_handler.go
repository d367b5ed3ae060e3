package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterMessage(NewIntakeHandler)
}

// intakeHandler receives every file and text a user sends and relays it
// to the administrators.
type intakeHandler struct {
	base
	now func() time.Time
}

func NewIntakeHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.MessageHandler {
	return &intakeHandler{
		base: newBase(deps, baseLogger, "intake_handler"),
		now:  time.Now,
	}
}

func (h *intakeHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	log := zerolog.Ctx(ctx)
	t := h.tr(update.UserID)

	// Stickers, contacts and the like: point the user at the menu
	if update.Attachment == nil && update.Text == "" {
		return h.send(ctx, update.ChatID, t("send_file", nil), messages.MainMenu(t, h.isAdmin(update.UserID)))
	}

	sub, err := h.submission(update)
	if err != nil {
		log.Warn().Err(err).Str("file_name", sub.FileName).Str("mime_type", sub.MimeType).Msg("Submission rejected")
		return h.reply(ctx, update, t("unsupported_file", nil), nil)
	}
	h.deps.Sessions.RecordSubmission(update.UserID, sub)

	report := h.deps.Dispatcher.Broadcast(ctx, sub, h.deps.Admins.List())
	if err := report.Err(); err != nil {
		log.Error().Err(err).Int("attempted", report.Attempted).Msg("Submission reached no administrator")
		return h.reply(ctx, update, t("no_admins", nil), nil)
	}

	if sub.IsText() {
		return h.reply(ctx, update, t("text_sent", nil), nil)
	}

	if err := h.reply(ctx, update, t("file_sent", nil), nil); err != nil {
		log.Warn().Err(err).Msg("Failed to confirm the submission")
	}

	if err := h.deps.Bus.Publish(ctx, ports.TopicSubmissionBroadcast, sub); err != nil {
		log.Error().Err(err).Msg("Failed to start verification")
		return h.reply(ctx, update, t("file_error", nil), nil)
	}
	return nil
}

// submission builds and validates the payload. A rejected payload is
// returned together with ErrValidationRejected.
func (h *intakeHandler) submission(update *ports.BotUpdate) (domain.Submission, error) {
	display := domain.DisplayInfo{
		FirstName: update.FirstName,
		LastName:  update.LastName,
		Username:  update.Username,
	}
	if sess, ok := h.deps.Sessions.Get(update.UserID); ok {
		display = sess.Display
	}

	sub := domain.Submission{
		UserID:      update.UserID,
		Display:     display,
		Kind:        domain.PayloadText,
		Text:        update.Text,
		MessageID:   update.MessageID,
		SubmittedAt: h.now(),
	}
	if a := update.Attachment; a != nil {
		sub.Kind = payloadKind(a.Kind)
		sub.FileID = a.FileID
		sub.FileName = a.FileName
		sub.MimeType = a.MimeType
		sub.FileSize = a.FileSize
		sub.Text = ""
	}

	if h.deps.Validator.Classify(sub.Kind, sub.FileName, sub.MimeType) == domain.Rejected {
		return sub, fmt.Errorf("%w: %s %q", domain.ErrValidationRejected, sub.Kind, sub.FileName)
	}
	return sub, nil
}

func payloadKind(kind ports.FileKind) domain.PayloadKind {
	switch kind {
	case ports.FilePhoto:
		return domain.PayloadPhoto
	case ports.FileVideo:
		return domain.PayloadVideo
	case ports.FileAudio:
		return domain.PayloadAudio
	default:
		return domain.PayloadDocument
	}
}
