package domain

import "time"

// PayloadKind is the kind of attachment a user sent.
type PayloadKind string

const (
	PayloadDocument PayloadKind = "document"
	PayloadPhoto    PayloadKind = "photo"
	PayloadVideo    PayloadKind = "video"
	PayloadAudio    PayloadKind = "audio"
	PayloadText     PayloadKind = "text"
)

// Classification is the validator's verdict on a payload.
type Classification string

const (
	Accepted Classification = "accepted"
	Rejected Classification = "rejected"
)

// Submission is one accepted file or text payload. Treat it as immutable.
type Submission struct {
	UserID      int64
	Display     DisplayInfo
	Kind        PayloadKind
	FileName    string
	MimeType    string // Empty for text
	FileSize    int64  // 0 when unknown
	FileID      string // Telegram file handle, used to re-send the payload
	Text        string // Only for PayloadText
	MessageID   int
	SubmittedAt time.Time
}

// IsText reports whether the submission is a plain text message.
func (s Submission) IsText() bool {
	return s.Kind == PayloadText
}
