package scoring

import "math"

// FacesFound reports how many faces the upstream detector found per image.
type FacesFound struct {
	LicenseFaces int `json:"license_faces"`
	UserFaces    int `json:"user_faces"`
}

// Result is the terminal verification report. Field names, nesting and value
// ranges are a compatibility contract with existing consumers; the struct is
// never mutated after construction.
type Result struct {
	Text            string          `json:"text"`
	IsLicense       bool            `json:"is_license"`
	FaceMatchScore  float64         `json:"face_match_score"`
	FacesFound      FacesFound      `json:"faces_found"`
	SafetyScore     int             `json:"safety_score"`
	SafetyStatus    SafetyStatus    `json:"safety_status"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	ScoreBreakdown  ScoreBreakdown  `json:"score_breakdown"`
}

// BuildResult assembles the report from the pipeline outputs. Pure data
// transformation; the only arithmetic is rounding the similarity for display.
func BuildResult(rawText string, cls Classification, faces FaceComparison, score int, breakdown ScoreBreakdown, status SafetyStatus, confidence ConfidenceLevel) *Result {
	return &Result{
		Text:           rawText,
		IsLicense:      cls.IsLicense,
		FaceMatchScore: math.Round(faces.Similarity*1000) / 1000,
		FacesFound: FacesFound{
			LicenseFaces: faces.LicenseFaces,
			UserFaces:    faces.UserFaces,
		},
		SafetyScore:     score,
		SafetyStatus:    status,
		ConfidenceLevel: confidence,
		ScoreBreakdown:  breakdown,
	}
}
