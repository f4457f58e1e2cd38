package domain

// ValidationError reports bad or missing required order fields.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// AuthenticityError reports a webhook signature mismatch. The delivery is
// dropped before any parsing.
type AuthenticityError string

func (e AuthenticityError) Error() string { return string(e) }

// CorruptEventError reports structurally malformed metadata on an otherwise
// authenticated event. The payment succeeded; only bookkeeping is degraded.
type CorruptEventError string

func (e CorruptEventError) Error() string { return string(e) }

// UpstreamError wraps a failed call to an external service. It is surfaced
// to the caller unmodified; retry policy belongs to callers.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
