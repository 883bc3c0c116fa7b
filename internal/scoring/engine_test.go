package scoring

import (
	"bytes"
	"encoding/json"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), absDistance)
}

func TestScoreStrongLicenseWithGoodFaceMatch(t *testing.T) {
	engine := newTestEngine()
	rawText := "DRIVER LICENSE  date of birth 01/02/1990 class C expiration 01/02/2030"
	license := [][]float64{{0.0}}
	user := [][]float64{{0.1}} // distance 0.1, similarity 0.9

	res := engine.Score(rawText, license, user)

	if !res.IsLicense {
		t.Fatal("expected is_license")
	}
	if res.ScoreBreakdown.BaseLicenseScore != 30 {
		t.Fatalf("expected base 30, got %d", res.ScoreBreakdown.BaseLicenseScore)
	}
	if res.ScoreBreakdown.FaceMatchScore != 36 {
		t.Fatalf("expected face points 36, got %d", res.ScoreBreakdown.FaceMatchScore)
	}
	if res.ScoreBreakdown.KeywordMatches != 20 {
		t.Fatalf("expected keyword points capped at 20, got %d", res.ScoreBreakdown.KeywordMatches)
	}
	if res.SafetyScore < 86 || res.SafetyScore > 100 {
		t.Fatalf("expected score in [86,100], got %d", res.SafetyScore)
	}
	if res.SafetyStatus != StatusVerySafe {
		t.Fatalf("expected very_safe, got %s", res.SafetyStatus)
	}
	if res.ConfidenceLevel != ConfidenceVeryHigh {
		t.Fatalf("expected very_high, got %s", res.ConfidenceLevel)
	}
	if res.FacesFound.LicenseFaces != 1 || res.FacesFound.UserFaces != 1 {
		t.Fatalf("face counts wrong: %+v", res.FacesFound)
	}
	if res.FaceMatchScore != 0.9 {
		t.Fatalf("expected reported similarity 0.9, got %f", res.FaceMatchScore)
	}
	if res.Text != rawText {
		t.Fatal("result must carry the raw OCR text")
	}
}

func TestScoreEmptyTextAndMissingFace(t *testing.T) {
	engine := newTestEngine()

	res := engine.Score("", [][]float64{{0.0}}, nil)

	if res.IsLicense {
		t.Fatal("empty text must not classify as a license")
	}
	if res.ScoreBreakdown != (ScoreBreakdown{}) {
		t.Fatalf("expected empty breakdown, got %+v", res.ScoreBreakdown)
	}
	if res.FaceMatchScore != 0 {
		t.Fatalf("expected face match score 0, got %f", res.FaceMatchScore)
	}
	if res.FacesFound.UserFaces != 0 || res.FacesFound.LicenseFaces != 1 {
		t.Fatalf("face counts wrong: %+v", res.FacesFound)
	}
	if res.SafetyScore != 0 {
		t.Fatalf("expected score 0, got %d", res.SafetyScore)
	}
	if res.SafetyStatus != StatusUnsafe {
		t.Fatalf("expected unsafe, got %s", res.SafetyStatus)
	}
	if res.ConfidenceLevel != ConfidenceVeryLow {
		t.Fatalf("expected very_low, got %s", res.ConfidenceLevel)
	}
}

func TestScoreKeywordThresholdBoundary(t *testing.T) {
	engine := newTestEngine()
	license := [][]float64{{0.0}}
	user := [][]float64{{0.5}} // similarity 0.5

	res := engine.Score("dmv vehicle", license, user)

	if !res.IsLicense {
		t.Fatal("two keyword matches must meet the threshold")
	}
	if res.ScoreBreakdown.BaseLicenseScore != 30 {
		t.Fatalf("expected base 30, got %d", res.ScoreBreakdown.BaseLicenseScore)
	}
	if res.ScoreBreakdown.KeywordMatches != 10 {
		t.Fatalf("expected 2 matches to score 10 points, got %d", res.ScoreBreakdown.KeywordMatches)
	}
	if res.ScoreBreakdown.FaceMatchScore != 20 {
		t.Fatalf("expected face points 20, got %d", res.ScoreBreakdown.FaceMatchScore)
	}
	if res.SafetyScore != 60 {
		t.Fatalf("expected score 60, got %d", res.SafetyScore)
	}
	if res.SafetyStatus != StatusSafe {
		t.Fatalf("expected safe, got %s", res.SafetyStatus)
	}

	// One fewer match drops below the license threshold.
	below := engine.Score("vehicle", license, user)
	if below.IsLicense {
		t.Fatal("one keyword match must stay below the threshold")
	}
	if below.ScoreBreakdown.BaseLicenseScore != 0 {
		t.Fatalf("expected base 0, got %d", below.ScoreBreakdown.BaseLicenseScore)
	}
	if below.ScoreBreakdown.KeywordMatches != 5 {
		t.Fatalf("expected 1 match to score 5 points, got %d", below.ScoreBreakdown.KeywordMatches)
	}
}

func TestScoreBoundedForAllInputs(t *testing.T) {
	engine := newTestEngine()
	texts := []string{
		"",
		"driver license driver license driver license",
		"DL A1234567 DOB 01/02/1990 EXP 01/02/2030 CLASS C SEX F HGT 5-08 WGT 130 EYES BRN HAIR BLK restrictions endorsements address state dmv department of motor vehicles identification card",
		"completely unrelated text about gardening",
	}
	encodingSets := [][][]float64{nil, {{0.0}}, {{0.0}, {0.3}}}

	for _, text := range texts {
		for _, license := range encodingSets {
			for _, user := range encodingSets {
				res := engine.Score(text, license, user)
				if res.SafetyScore < 0 || res.SafetyScore > 100 {
					t.Fatalf("score out of range: %d", res.SafetyScore)
				}
				if res.SafetyScore != res.ScoreBreakdown.Sum() {
					t.Fatalf("score %d != breakdown sum %d", res.SafetyScore, res.ScoreBreakdown.Sum())
				}
			}
		}
	}
}

func TestScoreMonotonicInFaceSimilarity(t *testing.T) {
	engine := newTestEngine()
	text := "dmv vehicle state"
	license := [][]float64{{0.0}}

	prevFacePoints := -1
	prevScore := -1
	for d := 10; d >= 0; d-- { // distance 1.0 down to 0.0, similarity rising
		user := [][]float64{{float64(d) / 10}}
		res := engine.Score(text, license, user)
		if res.ScoreBreakdown.FaceMatchScore < prevFacePoints {
			t.Fatalf("face points decreased as similarity rose (distance %d/10)", d)
		}
		if res.SafetyScore < prevScore {
			t.Fatalf("safety score decreased as similarity rose (distance %d/10)", d)
		}
		prevFacePoints = res.ScoreBreakdown.FaceMatchScore
		prevScore = res.SafetyScore
	}
}

func TestScoreIdempotent(t *testing.T) {
	engine := newTestEngine()
	text := "DRIVER LICENSE DOB 01/02/1990"
	license := [][]float64{{0.2}}
	user := [][]float64{{0.35}}

	first, err := json.Marshal(engine.Score(text, license, user))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(engine.Score(text, license, user))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("results differ across identical invocations:\n%s\n%s", first, second)
	}
}

func TestResultJSONContract(t *testing.T) {
	engine := newTestEngine()

	data, err := json.Marshal(engine.Score("driver license class c", [][]float64{{0.0}}, [][]float64{{0.4}}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"text", "is_license", "face_match_score", "faces_found", "safety_score", "safety_status", "confidence_level", "score_breakdown"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing top-level field %q in %s", key, data)
		}
	}

	faces, ok := decoded["faces_found"].(map[string]interface{})
	if !ok {
		t.Fatalf("faces_found is not an object: %s", data)
	}
	for _, key := range []string{"license_faces", "user_faces"} {
		if _, ok := faces[key]; !ok {
			t.Fatalf("missing faces_found field %q", key)
		}
	}

	breakdown, ok := decoded["score_breakdown"].(map[string]interface{})
	if !ok {
		t.Fatalf("score_breakdown is not an object: %s", data)
	}
	for _, key := range []string{"base_license_score", "face_match_score", "keyword_matches", "text_quality", "confidence_indicators"} {
		if _, ok := breakdown[key]; !ok {
			t.Fatalf("missing score_breakdown field %q", key)
		}
	}
}
