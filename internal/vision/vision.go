// Package vision defines the capability interfaces for the OCR and
// face-detection black boxes consumed by the verification flow. The scoring
// engine never touches these directly; it only sees their outputs.
package vision

import (
	"context"
	"math"
)

// TextExtractor produces raw OCR text from image bytes. Implementations
// return empty text, never an error, when the image carries no readable
// text.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// FaceEncoder detects faces in image bytes and returns one fixed-dimension
// encoding per detected face. An empty slice is a valid zero-face state, not
// an error.
type FaceEncoder interface {
	DetectFaces(ctx context.Context, image []byte) ([][]float64, error)
}

// Client is the combined surface the verification use case needs from the
// vision sidecar service.
type Client interface {
	TextExtractor
	FaceEncoder
}

// EuclideanDistance is the default face-encoding distance: the L2 norm of
// the element-wise difference, the same metric the upstream encoder is
// calibrated against. Vectors of unequal length compare over the shorter
// prefix.
func EuclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
