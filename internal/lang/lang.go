// Package lang tags section titles with a language code. Identification is a
// black-box capability behind a one-method interface so the pipeline can be
// tested with a deterministic stand-in.
package lang

import (
	"errors"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// Unknown is the tag used whenever identification is impossible or fails.
const Unknown = "unknown"

// minDetectRunes: titles this short carry too little signal to classify.
const minDetectRunes = 2

// Identifier maps text to a language code.
type Identifier interface {
	Detect(text string) (string, error)
}

// ErrUndetermined reports that no language could be decided for the input.
var ErrUndetermined = errors.New("language undetermined")

// New returns the default Identifier backed by whatlanggo's trigram model.
func New() Identifier {
	return whatlangIdentifier{}
}

type whatlangIdentifier struct{}

func (whatlangIdentifier) Detect(text string) (string, error) {
	info := whatlanggo.Detect(text)
	if info.Lang < 0 {
		return "", ErrUndetermined
	}
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return "", ErrUndetermined
	}
	return code, nil
}

// Tag classifies a title, degrading to Unknown instead of propagating
// failures: identification problems never cost a section its place in the
// report.
func Tag(id Identifier, title string) string {
	if utf8.RuneCountInString(title) <= minDetectRunes {
		return Unknown
	}
	code, err := id.Detect(title)
	if err != nil || code == "" {
		return Unknown
	}
	return code
}
