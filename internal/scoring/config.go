package scoring

// Point allocation per sub-score. The five maxima sum to 100, so the
// composite safety score is bounded by construction.
const (
	BaseLicensePoints    = 30
	FaceMatchMaxPoints   = 40
	KeywordMaxPoints     = 20
	PointsPerKeyword     = 5
	TextQualityMaxPoints = 10
	TextLengthPoints     = 4
	DateShapePoints      = 3
	IDNumberShapePoints  = 3
	FieldLabelMaxPoints  = 5
)

// Tier boundaries over the 0-100 safety score. Both the status and the
// confidence partitions use these; confidence additionally demotes one tier
// when the keyword and face evidence sources do not corroborate each other.
const (
	VerySafeMin = 80
	SafeMin     = 60
	ModerateMin = 40
	RiskyMin    = 20
)

// Config owns the scoring policy: the keyword reference set, discriminator
// phrases, field labels and thresholds. Treat a Config as immutable once it
// is handed to a Classifier or Aggregator; build a separate Config per
// jurisdiction if the keyword set differs.
type Config struct {
	// Keywords are license-domain terms matched by containment against the
	// normalized text. Each contributes at most one keyword match.
	Keywords []string

	// Discriminators are near-certain license phrases. Any one of them makes
	// the document a license regardless of the match count.
	Discriminators []string

	// FieldLabels are common license field abbreviations ("dob", "exp", ...)
	// feeding the confidence_indicators sub-score.
	FieldLabels []string

	// MinKeywordMatches is the distinct-match count at which a document is
	// considered a license.
	MinKeywordMatches int

	// MinTextLength is the normalized-text length below which the OCR output
	// is considered too thin to be a document scan.
	MinTextLength int

	// FaceTolerance is the distance threshold for the boolean face match.
	// Lower is stricter. The continuous similarity does not depend on it.
	FaceTolerance float64
}

// DefaultConfig returns the stock US driver's license policy.
func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"license",
			"driver",
			"identification",
			"date of birth",
			"expiration",
			"class",
			"restrictions",
			"endorsements",
			"state",
			"dmv",
			"department",
			"motor",
			"vehicle",
			"card",
		},
		Discriminators: []string{
			"driver license",
			"driver's license",
			"drivers license",
		},
		FieldLabels: []string{
			"dob",
			"exp",
			"class",
			"iss",
			"sex",
			"hgt",
			"wgt",
			"eyes",
			"hair",
			"restrictions",
			"endorsements",
			"address",
		},
		MinKeywordMatches: 2,
		MinTextLength:     20,
		FaceTolerance:     0.6,
	}
}
