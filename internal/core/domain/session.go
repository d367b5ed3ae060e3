package domain

import (
	"strings"
	"time"
)

// DisplayInfo is the name data Telegram sends with every interaction.
type DisplayInfo struct {
	FirstName string
	LastName  string
	Username  string
}

// FullName joins the non-empty name parts.
func (d DisplayInfo) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{d.FirstName, d.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Session is the per-user conversational state.
type Session struct {
	UserID         int64
	Display        DisplayInfo
	Language       string // Empty means "use the configured default"
	LastSubmission *Submission
	CreatedAt      time.Time
	LastSeen       time.Time
}
