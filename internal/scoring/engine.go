package scoring

// Engine runs the full scoring pipeline: normalize the OCR text, classify
// it, score the face comparison and aggregate everything into a Result.
// An Engine is stateless across invocations and safe for concurrent use.
type Engine struct {
	cfg        Config
	classifier *Classifier
	aggregator *Aggregator
	dist       FaceDistanceFn
}

// NewEngine builds an engine with the given policy and face distance
// function.
func NewEngine(cfg Config, dist FaceDistanceFn) *Engine {
	return &Engine{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		aggregator: NewAggregator(cfg),
		dist:       dist,
	}
}

// Score evaluates one request pair: raw OCR text from the claimed license
// plus the face encodings extracted from both images. It is a pure function
// of its inputs; identical inputs produce identical results.
func (e *Engine) Score(rawText string, licenseEncs, userEncs [][]float64) *Result {
	normalized := Normalize(rawText)
	cls := e.classifier.Classify(normalized)
	faces := ScoreFaces(licenseEncs, userEncs, e.cfg.FaceTolerance, e.dist)
	score, breakdown, status, confidence := e.aggregator.Aggregate(cls, faces)
	return BuildResult(rawText, cls, faces, score, breakdown, status, confidence)
}
