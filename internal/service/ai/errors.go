package ai

import (
	"errors"
	"strings"
)

// ErrMissingAPIKey marks a request that cannot proceed because the Gemini
// credential is absent.
var ErrMissingAPIKey = errors.New("gemini api key not configured")

// FailureKind buckets external-service failures for status mapping.
type FailureKind int

const (
	KindOther FailureKind = iota
	KindInvalidKey
	KindQuota
)

// ClassifyError inspects the error message the way the product always has:
// the Gemini API does not expose stable error codes for these cases, so
// classification is by content.
func ClassifyError(err error) FailureKind {
	if err == nil {
		return KindOther
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key"):
		return KindInvalidKey
	case strings.Contains(msg, "quota") || strings.Contains(msg, "limit") || strings.Contains(msg, "429"):
		return KindQuota
	default:
		return KindOther
	}
}
