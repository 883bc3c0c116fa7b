package scoring

import "math"

// FaceDistanceFn computes a non-negative distance between two face encodings.
// Injected so the engine can run against any upstream face stack, or against
// deterministic fakes in tests.
type FaceDistanceFn func(a, b []float64) float64

// FaceComparison reports per-image face counts and the best-pair similarity.
// Similarity is 0 whenever either image contributed no faces; a missing face
// is a scoring signal, not an error.
type FaceComparison struct {
	LicenseFaces int
	UserFaces    int
	Similarity   float64
	Matched      bool
}

// ScoreFaces compares every license encoding against every user encoding and
// keeps the closest pair (lenient toward multiple detected faces). The
// distance converts to similarity as 1 - min(distance, 1); tolerance only
// drives the boolean Matched flag.
func ScoreFaces(licenseEncs, userEncs [][]float64, tolerance float64, dist FaceDistanceFn) FaceComparison {
	cmp := FaceComparison{
		LicenseFaces: len(licenseEncs),
		UserFaces:    len(userEncs),
	}
	if len(licenseEncs) == 0 || len(userEncs) == 0 {
		return cmp
	}

	best := math.Inf(1)
	for _, licenseEnc := range licenseEncs {
		for _, userEnc := range userEncs {
			if d := dist(licenseEnc, userEnc); d < best {
				best = d
			}
		}
	}

	cmp.Similarity = 1 - math.Min(best, 1)
	cmp.Matched = best <= tolerance
	return cmp
}
