package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterSubscriber(NewVerificationSubscriber)
}

// NewVerificationSubscriber starts a verification for every submission
// that reached an administrator.
func NewVerificationSubscriber(deps *bot.Deps, baseLogger *zerolog.Logger) (string, ports.EventHandler) {
	log := baseLogger.With().Str("component", "verification_subscriber").Logger()

	return ports.TopicSubmissionBroadcast, func(ctx context.Context, event ports.Event) error {
		sub, ok := event.Data.(domain.Submission)
		if !ok {
			return fmt.Errorf("unexpected payload %T on %s", event.Data, event.Topic)
		}

		_, err := deps.Scheduler.Start(ctx, sub.UserID, sub)
		if errors.Is(err, domain.ErrSchedulerBusy) {
			log.Warn().Int64("user_id", sub.UserID).Msg("Verification rejected, scheduler busy")
			if nerr := deps.Notifier.Notify(ctx, sub.UserID, "verification_busy", nil); nerr != nil {
				return errors.Join(err, nerr)
			}
		}
		return err
	}
}
