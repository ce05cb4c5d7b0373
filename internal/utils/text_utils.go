package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer prepares scraped availability text for phrase matching.
// Retailer pages mix non-breaking spaces, typographic quotes and accented
// variants into otherwise plain notices, so matching happens on a folded form.
type TextNormalizer struct {
	logger *zap.Logger
}

// NewTextNormalizer creates a new TextNormalizer
func NewTextNormalizer(logger *zap.Logger) *TextNormalizer {
	return &TextNormalizer{
		logger: logger,
	}
}

// Normalize lowercases the text, strips diacritics and collapses all runs of
// whitespace (including non-breaking spaces) into single spaces
func (tn *TextNormalizer) Normalize(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		tn.logger.Debug("Text fold failed, using raw text", zap.Error(err))
		folded = text
	}

	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tn *TextNormalizer) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Replace invalid UTF-8 sequences with nothing
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}
