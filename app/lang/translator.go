package lang

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

var ErrTranslation = errors.New("translation failed")

// TranslationError wraps a backend failure. errors.Is(err, ErrTranslation)
// holds for every TranslationError.
type TranslationError struct {
	Backend string
	Err     error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTranslation, e.Backend, e.Err)
}

func (e *TranslationError) Unwrap() []error {
	return []error{ErrTranslation, e.Err}
}

// Translator turns text into the target language
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// None is the translator used when no backend is configured
type None struct{}

func (None) Translate(_ context.Context, _, _ string) (string, error) {
	return "", &TranslationError{Backend: "none", Err: errors.New("no translator configured")}
}

// RateLimited paces calls to the wrapped translator
type RateLimited struct {
	limiter *rate.Limiter
	next    Translator
}

// NewRateLimited allows rps calls per second. A non-positive rps disables pacing.
func NewRateLimited(next Translator, rps float64) Translator {
	if rps <= 0 {
		return next
	}
	return &RateLimited{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		next:    next,
	}
}

func (r *RateLimited) Translate(ctx context.Context, text, target string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &TranslationError{Backend: "rate limiter", Err: err}
	}
	return r.next.Translate(ctx, text, target)
}
