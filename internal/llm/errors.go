package llm

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ErrSafetyBlocked is returned when the capability withholds generation due
// to its safety filtering.
var ErrSafetyBlocked = errors.New("generation blocked by safety filtering")

// FaultKind is the tagged classification of a capability failure. The
// taxonomy is the contract; how a provider happens to word its errors is an
// implementation detail of Classify.
type FaultKind int

const (
	FaultUnknown FaultKind = iota
	FaultCredential
	FaultRateLimit
	FaultOverloaded
	FaultTransport
	FaultSafety
)

// String returns the kind's name for logging.
func (k FaultKind) String() string {
	switch k {
	case FaultCredential:
		return "credential"
	case FaultRateLimit:
		return "rate_limit"
	case FaultOverloaded:
		return "overloaded"
	case FaultTransport:
		return "transport"
	case FaultSafety:
		return "safety"
	default:
		return "unknown"
	}
}

// Retryable reports whether a fault of this kind may succeed on resubmission
// without operator action. Credential and safety faults are never retried.
func (k FaultKind) Retryable() bool {
	switch k {
	case FaultRateLimit, FaultOverloaded, FaultTransport:
		return true
	}
	return false
}

// Classify maps a capability error to a FaultKind. Structured provider
// error codes are consulted first; lowercased substring matching is kept
// only as a last resort for untyped errors.
func Classify(err error) FaultKind {
	if err == nil {
		return FaultUnknown
	}

	if errors.Is(err, ErrSafetyBlocked) {
		return FaultSafety
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FaultTransport
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code)
	}

	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return classifyStatus(oaErr.HTTPStatusCode)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FaultTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return FaultTransport
	}

	return classifyText(err.Error())
}

func classifyStatus(code int) FaultKind {
	switch code {
	case 401, 403:
		return FaultCredential
	case 429:
		return FaultRateLimit
	case 500, 502, 503, 529:
		return FaultOverloaded
	case 408, 504:
		return FaultTransport
	}
	return FaultUnknown
}

// classifyText is the fragile fallback for errors that carry no structured
// code. Matches are on lowercased substrings.
func classifyText(msg string) FaultKind {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, "api key", "unauthorized", "unauthenticated", "permission denied", "invalid authentication"):
		return FaultCredential
	case containsAny(m, "rate limit", "quota", "resource exhausted", "resource_exhausted", "429"):
		return FaultRateLimit
	case containsAny(m, "overload", "unavailable", "503"):
		return FaultOverloaded
	case containsAny(m, "connection", "network", "timeout", "dial tcp", "no such host"):
		return FaultTransport
	case containsAny(m, "safety", "blocked", "prohibited content"):
		return FaultSafety
	}
	return FaultUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
