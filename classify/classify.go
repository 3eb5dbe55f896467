// Package classify implements the Classifier: a single pure function from
// plain text to a stable category tag. The teacher has no analog (walker
// never classifies content); grounded instead on lingua-go, a language
// identification library, since §4.6 only requires "a stable tag per
// input" and the crawler's stated purpose includes "classifies page
// language".
package classify

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Unknown is the fallback tag returned when classification fails for any
// reason, per §4.6.
const Unknown = "unknown"

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

func getDetector() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}

// Classify returns a stable language tag for text, or Unknown if no
// language could be confidently identified. Treated as pure and
// side-effect free per §4.6: it never mutates crawler state and any
// internal error surfaces only as the Unknown tag.
func Classify(text string) (tag string) {
	defer func() {
		if recover() != nil {
			tag = Unknown
		}
	}()

	if text == "" {
		return Unknown
	}

	lang, ok := getDetector().DetectLanguageOf(text)
	if !ok {
		return Unknown
	}
	return lang.String()
}
