package lang

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Unknown is the language code of items whose language could not be detected
const Unknown = "unknown"

// MaxSampleRunes bounds the text handed to the detector
const MaxSampleRunes = 4000

var ErrUndetermined = errors.New("language could not be determined")

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run returns the ISO 639-1 code of the sample's language
func (c *Classifier) Run(sample string) (string, error) {
	sample = strings.TrimSpace(Truncate(sample, MaxSampleRunes))
	if sample == "" {
		return "", fmt.Errorf("empty sample: %w", ErrUndetermined)
	}

	info := whatlanggo.Detect(sample)
	if info.Lang < 0 {
		return "", ErrUndetermined
	}

	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}

	base, err := Normalize(code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUndetermined, err)
	}

	return base, nil
}

// Normalize reduces a language tag such as "en-GB" or "deu" to its
// two-letter base code.
func Normalize(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", code, err)
	}

	base, _ := tag.Base()
	return base.String(), nil
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
