package usecase

import "context"

// MetricsSummary represents aggregated verification insights.
type MetricsSummary struct {
	TotalRequests         int64   `json:"total_requests"`
	LicensesDetected      int64   `json:"licenses_detected"`
	LicenseDetectionRate  float64 `json:"license_detection_rate"`
	AverageSafetyScore    float64 `json:"average_safety_score"`
	AverageFaceMatchScore float64 `json:"average_face_match_score"`
}

// GetMetricsSummary aggregates verification metrics from persisted logs.
func (uc *VerificationUseCase) GetMetricsSummary(ctx context.Context) (*MetricsSummary, error) {
	aggregation, err := uc.repo.AggregateMetrics(ctx)
	if err != nil {
		return nil, err
	}

	summary := &MetricsSummary{
		TotalRequests:         aggregation.TotalCount,
		LicensesDetected:      aggregation.LicenseCount,
		AverageSafetyScore:    aggregation.AverageSafetyScore,
		AverageFaceMatchScore: aggregation.AverageFaceMatch,
	}

	if aggregation.TotalCount > 0 {
		summary.LicenseDetectionRate = float64(aggregation.LicenseCount) / float64(aggregation.TotalCount)
	}

	return summary, nil
}
