package services

import (
	"RelayBot/internal/core/domain"
	"slices"
	"strings"
)

// Default upload allow-lists.
var (
	DefaultAllowedExtensions = []string{".zip", ".txt", ".json"}
	DefaultAllowedMimeTypes  = []string{
		"application/zip",
		"application/x-zip-compressed",
		"text/plain",
		"application/json",
		"text/json",
	}
)

// SubmissionValidator decides which payloads are forwarded.
// Documents pass on extension OR mime type: forwarding too much is
// preferred over blocking a real export.
type SubmissionValidator struct {
	extensions []string
	mimeTypes  []string
}

// NewSubmissionValidator normalizes the allow-lists to lower case.
// Empty lists fall back to the defaults.
func NewSubmissionValidator(extensions, mimeTypes []string) *SubmissionValidator {
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}
	if len(mimeTypes) == 0 {
		mimeTypes = DefaultAllowedMimeTypes
	}
	v := &SubmissionValidator{}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		v.extensions = append(v.extensions, ext)
	}
	for _, mt := range mimeTypes {
		if mt = strings.ToLower(strings.TrimSpace(mt)); mt != "" {
			v.mimeTypes = append(v.mimeTypes, mt)
		}
	}
	return v
}

// Classify is pure: the same input always gives the same verdict.
func (v *SubmissionValidator) Classify(kind domain.PayloadKind, fileName, mimeType string) domain.Classification {
	switch kind {
	case domain.PayloadText:
		return domain.Accepted
	case domain.PayloadDocument:
		name := strings.ToLower(fileName)
		for _, ext := range v.extensions {
			if strings.HasSuffix(name, ext) {
				return domain.Accepted
			}
		}
		if slices.Contains(v.mimeTypes, strings.ToLower(strings.TrimSpace(mimeType))) {
			return domain.Accepted
		}
		return domain.Rejected
	default:
		// photo, video, audio and anything unknown
		return domain.Rejected
	}
}
