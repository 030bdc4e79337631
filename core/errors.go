package orchestration

import (
	"errors"
	"fmt"
)

// ErrListenTimeout is returned when no final transcript arrives within the
// listening window. It is not a failure of the speech stack and is not
// retried.
var ErrListenTimeout = errors.New("listening timed out without a transcript")

// ErrUnsupportedLocale is returned by SwitchLanguage for locales the speech
// stack cannot serve. The active locale is left untouched.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// ErrOrchestratorClosed is returned by operations on a closed orchestrator.
var ErrOrchestratorClosed = errors.New("orchestrator is closed")

// TranscriptionError wraps a recognition failure. The turn loop retries
// these a bounded number of times before giving the turn up.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// InferenceError wraps a model failure. It is never retried; the turn falls
// back to a fixed spoken apology so the user is not left in silence.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// SynthesisError wraps a speech synthesis failure. The reply text has already
// been committed to the conversation at that point, so the error is logged
// and the turn ends silently.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
