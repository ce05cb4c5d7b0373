package core

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikey/stock-watcher/internal/utils"
	"go.uber.org/zap"
)

// Classifier decides whether a rendered product page shows the item as
// purchasable. The heuristic is deliberately site-coupled: it looks for
// known purchase affordances and known unavailability notices, and an
// unavailability notice always wins over a cart button left in the DOM.
type Classifier struct {
	cartSelectors         []string
	availabilitySelectors []string
	unavailablePhrases    []string
	normalizer            *utils.TextNormalizer
	logger                *zap.Logger
}

// NewClassifier creates a new availability classifier
func NewClassifier(
	cartSelectors []string,
	availabilitySelectors []string,
	unavailablePhrases []string,
	normalizer *utils.TextNormalizer,
	logger *zap.Logger,
) *Classifier {
	// Phrases are matched against normalized page text, so normalize them once
	normalized := make([]string, len(unavailablePhrases))
	for i, phrase := range unavailablePhrases {
		normalized[i] = normalizer.Normalize(phrase)
	}

	return &Classifier{
		cartSelectors:         cartSelectors,
		availabilitySelectors: availabilitySelectors,
		unavailablePhrases:    normalized,
		normalizer:            normalizer,
		logger:                logger,
	}
}

// Classify evaluates a rendered page and returns its availability status
func (c *Classifier) Classify(page *Page) *CheckResult {
	started := time.Now()
	result := &CheckResult{
		CheckedAt: started,
	}

	if page == nil || strings.TrimSpace(page.HTML) == "" {
		result.Status = StatusError
		result.Indicator = "empty document"
		result.Elapsed = time.Since(started)
		return result
	}

	// Scraped documents occasionally carry broken byte sequences that would
	// surface as replacement runes inside availability text
	html := c.normalizer.SanitizeUTF8(page.HTML)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		c.logger.Warn("Failed to parse page HTML",
			zap.String("url", page.URL),
			zap.Error(err))
		result.Status = StatusError
		result.Indicator = "unparseable document"
		result.Elapsed = time.Since(started)
		return result
	}

	// Unavailability notices override any purchase affordance
	if phrase, found := c.findUnavailablePhrase(doc); found {
		result.Status = StatusOutOfStock
		result.Indicator = phrase
		result.Elapsed = time.Since(started)
		return result
	}

	for _, selector := range c.cartSelectors {
		if doc.Find(selector).Length() > 0 {
			result.Status = StatusInStock
			result.Indicator = selector
			result.Elapsed = time.Since(started)
			return result
		}
	}

	// No affordance at all reads as unavailable
	result.Status = StatusOutOfStock
	result.Indicator = "no purchase affordance"
	result.Elapsed = time.Since(started)
	return result
}

// findUnavailablePhrase scans the availability blocks for a known
// unavailability notice and returns the first phrase that matches
func (c *Classifier) findUnavailablePhrase(doc *goquery.Document) (string, bool) {
	var matched string

	for _, selector := range c.availabilitySelectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := c.normalizer.Normalize(sel.Text())
			if text == "" {
				return true
			}
			for _, phrase := range c.unavailablePhrases {
				if phrase != "" && strings.Contains(text, phrase) {
					matched = phrase
					return false
				}
			}
			return true
		})
		if matched != "" {
			return matched, true
		}
	}

	return "", false
}
