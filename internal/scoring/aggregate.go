package scoring

import "math"

// SafetyStatus is the five-tier label over the composite safety score.
type SafetyStatus string

const (
	StatusVerySafe SafetyStatus = "very_safe"
	StatusSafe     SafetyStatus = "safe"
	StatusModerate SafetyStatus = "moderate"
	StatusRisky    SafetyStatus = "risky"
	StatusUnsafe   SafetyStatus = "unsafe"
)

// ConfidenceLevel expresses how strongly the independent evidence sources
// (document text and face match) agree, as a five-tier label.
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
)

// ScoreBreakdown maps each sub-score to its point contribution. The five
// values always sum to the safety score.
type ScoreBreakdown struct {
	BaseLicenseScore     int `json:"base_license_score"`
	FaceMatchScore       int `json:"face_match_score"`
	KeywordMatches       int `json:"keyword_matches"`
	TextQuality          int `json:"text_quality"`
	ConfidenceIndicators int `json:"confidence_indicators"`
}

// Sum returns the composite safety score.
func (b ScoreBreakdown) Sum() int {
	return b.BaseLicenseScore + b.FaceMatchScore + b.KeywordMatches + b.TextQuality + b.ConfidenceIndicators
}

// Aggregator combines the classifier verdict and the face comparison into
// the weighted sub-scores, the composite safety score and the two tier
// labels. It never fails: missing evidence degrades scores to zero.
type Aggregator struct {
	cfg Config
}

func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes the breakdown from the upstream signals. Every
// sub-score is independently clamped to its maximum before summing, so the
// total stays inside [0, 100] even if a rule is later miscalibrated.
func (a *Aggregator) Aggregate(cls Classification, faces FaceComparison) (int, ScoreBreakdown, SafetyStatus, ConfidenceLevel) {
	var breakdown ScoreBreakdown

	if cls.IsLicense {
		breakdown.BaseLicenseScore = BaseLicensePoints
	}

	breakdown.FaceMatchScore = clampPoints(int(math.Round(faces.Similarity*FaceMatchMaxPoints)), FaceMatchMaxPoints)
	breakdown.KeywordMatches = clampPoints(cls.Keywords.Count*PointsPerKeyword, KeywordMaxPoints)

	quality := 0
	if cls.Quality.LongEnough {
		quality += TextLengthPoints
	}
	if cls.Quality.HasDateShape {
		quality += DateShapePoints
	}
	if cls.Quality.HasIDNumberShape {
		quality += IDNumberShapePoints
	}
	breakdown.TextQuality = clampPoints(quality, TextQualityMaxPoints)

	breakdown.ConfidenceIndicators = clampPoints(cls.Quality.FieldLabelHits, FieldLabelMaxPoints)

	score := breakdown.Sum()
	corroborated := breakdown.FaceMatchScore > 0 && cls.Keywords.Count >= a.cfg.MinKeywordMatches
	return score, breakdown, statusFor(score), confidenceFor(score, corroborated)
}

// statusFor maps the safety score onto its tier. The tiers partition
// [0, 100]: every integer score lands in exactly one.
func statusFor(score int) SafetyStatus {
	switch {
	case score >= VerySafeMin:
		return StatusVerySafe
	case score >= SafeMin:
		return StatusSafe
	case score >= ModerateMin:
		return StatusModerate
	case score >= RiskyMin:
		return StatusRisky
	default:
		return StatusUnsafe
	}
}

// confidenceFor maps the score onto a confidence tier using the same
// partition as statusFor, demoted one tier when the keyword and face
// evidence sources do not corroborate each other. Corroboration can only
// demote, never promote, so for a fixed corroboration state a higher score
// never yields a lower tier.
func confidenceFor(score int, corroborated bool) ConfidenceLevel {
	var level ConfidenceLevel
	switch {
	case score >= VerySafeMin:
		level = ConfidenceVeryHigh
	case score >= SafeMin:
		level = ConfidenceHigh
	case score >= ModerateMin:
		level = ConfidenceMedium
	case score >= RiskyMin:
		level = ConfidenceLow
	default:
		level = ConfidenceVeryLow
	}
	if !corroborated {
		level = demote(level)
	}
	return level
}

func demote(level ConfidenceLevel) ConfidenceLevel {
	switch level {
	case ConfidenceVeryHigh:
		return ConfidenceHigh
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// clampPoints bounds a sub-score to [0, max]. An out-of-range value here is
// a programming defect in a scoring rule; it must never poison the total.
func clampPoints(points, max int) int {
	if points < 0 {
		return 0
	}
	if points > max {
		return max
	}
	return points
}
