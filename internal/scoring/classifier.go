package scoring

import (
	"regexp"
	"strings"
)

// Shapes of structured license fields, evaluated against normalized
// (lower-cased) text. Deliberately loose: they detect field-like structure,
// they do not validate field contents.
var (
	dateShapePattern     = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	idNumberShapePattern = regexp.MustCompile(`\b[a-z]{1,3}\s?\d{4,10}\b`)
)

// KeywordSignals reports which reference keywords were found in the text.
// Every keyword counts at most once no matter how often it repeats.
type KeywordSignals struct {
	Matched []string
	Count   int
}

// TextQuality captures coarse structure signals about the OCR text.
type TextQuality struct {
	LongEnough       bool
	HasDateShape     bool
	HasIDNumberShape bool
	FieldLabelHits   int
}

// Classification is the classifier verdict for one document text.
type Classification struct {
	IsLicense bool
	Keywords  KeywordSignals
	Quality   TextQuality
}

// Classifier decides whether normalized OCR text plausibly came from a
// driver's license. It never fails: empty input classifies as not-a-license
// with zero signals.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify matches the reference keyword set against normalized text and
// derives the quality indicators. The document is a license when the
// distinct match count reaches MinKeywordMatches or a discriminator phrase
// is present verbatim.
func (c *Classifier) Classify(normalized string) Classification {
	var cls Classification
	if normalized == "" {
		return cls
	}

	for _, keyword := range c.cfg.Keywords {
		if strings.Contains(normalized, keyword) {
			cls.Keywords.Matched = append(cls.Keywords.Matched, keyword)
		}
	}
	cls.Keywords.Count = len(cls.Keywords.Matched)

	cls.IsLicense = cls.Keywords.Count >= c.cfg.MinKeywordMatches
	if !cls.IsLicense {
		for _, phrase := range c.cfg.Discriminators {
			if strings.Contains(normalized, phrase) {
				cls.IsLicense = true
				break
			}
		}
	}

	cls.Quality = TextQuality{
		LongEnough:       len(normalized) >= c.cfg.MinTextLength,
		HasDateShape:     dateShapePattern.MatchString(normalized),
		HasIDNumberShape: idNumberShapePattern.MatchString(normalized),
	}
	for _, label := range c.cfg.FieldLabels {
		if strings.Contains(normalized, label) {
			cls.Quality.FieldLabelHits++
		}
	}

	return cls
}
