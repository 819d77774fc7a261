package scanner

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
)

var _ output.Classifier = HeuristicClassifier{}

var hebrewRune = regexp.MustCompile(`[\x{0590}-\x{05FF}]`)

// frenchIndicators are matched against the lower-cased literal.
var frenchIndicators = []string{
	"é", "è", "à", "ç", "ê", "ô", "û", "ù", "î", "ï", "ë",
	"le ", "la ", "les ", "des ", "une ", "un ",
	"est ", "sont ", "avec ", "pour ", "dans ",
}

// HeuristicClassifier flags Hebrew by code point range and French by
// diacritics and common short words.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Classify(text string) entities.Script {
	var s entities.Script
	if hebrewRune.MatchString(text) {
		s |= entities.ScriptHebrew
	}
	lower := cases.Lower(language.French).String(text)
	for _, ind := range frenchIndicators {
		if strings.Contains(lower, ind) {
			s |= entities.ScriptFrench
			break
		}
	}
	return s
}
