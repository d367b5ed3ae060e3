package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"errors"
	"html"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewStatusHandler)
}

// statusHandler is the plugin for /status. Users only see their own task.
type statusHandler struct{ base }

func NewStatusHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &statusHandler{newBase(deps, baseLogger, "status_handler")}
}

func (h *statusHandler) Command() string { return "status" }

func (h *statusHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)

	snap, err := h.latestTask(update.UserID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return h.reply(ctx, update, t("status_none", nil), nil)
	}

	key, params := statusTemplate(snap)
	return h.reply(ctx, update, t(key, params), nil)
}

func (h *statusHandler) latestTask(userID int64) (domain.TaskSnapshot, error) {
	snap, ok := h.deps.Scheduler.Status(userID)
	if !ok {
		return domain.TaskSnapshot{}, domain.ErrTaskNotFound
	}
	return snap, nil
}

// statusTemplate picks the status_* template for a task.
func statusTemplate(snap domain.TaskSnapshot) (string, map[string]any) {
	switch snap.State {
	case domain.TaskPending:
		return "status_pending", nil
	case domain.TaskInProgress:
		if snap.Remaining <= 0 {
			return "status_finishing", nil
		}
		remaining := snap.Remaining.Truncate(time.Second)
		return "status_in_progress", map[string]any{
			"file_name": html.EscapeString(snap.Submission.FileName),
			"minutes":   int(remaining / time.Minute),
			"seconds":   int((remaining % time.Minute) / time.Second),
		}
	}

	switch snap.Outcome {
	case domain.OutcomeSuccess:
		return "status_success", nil
	case domain.OutcomeWarning:
		return "status_warning", nil
	default:
		return "status_failed", nil
	}
}
