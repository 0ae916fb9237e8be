package llm

import "errors"

var (
	// ErrProviderUnavailable covers transport/HTTP failures after all retries.
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	// ErrInferenceTimeout marks completions cancelled by their deadline.
	ErrInferenceTimeout = errors.New("llm inference timeout")
	// ErrNoContent marks a successful HTTP response without any choice content.
	ErrNoContent = errors.New("llm provider returned no content")
)
