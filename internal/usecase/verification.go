package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Amelie-Fairweather/drivers-liscence/internal/imaging"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/logging"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/repository"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/scoring"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/vision"
)

const (
	processingTTL = time.Minute
	resultTTL     = 5 * time.Minute
)

// VerificationRepository defines the persistence operations needed by the
// use case.
type VerificationRepository interface {
	SaveLog(ctx context.Context, log *repository.VerificationLog) error
	FindByRequestIDAndUser(ctx context.Context, requestID, userID string) (*repository.VerificationLog, error)
	FindDuplicatesByHash(ctx context.Context, userID, hash, excludeRequestID string) ([]*repository.VerificationLog, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// VerificationUseCase orchestrates one license verification: image
// preparation, the vision sidecar calls, the scoring engine, persistence and
// caching.
type VerificationUseCase struct {
	repo           VerificationRepository
	cache          Cache
	vision         vision.Client
	engine         *scoring.Engine
	logger         *zap.Logger
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type cachedVerification struct {
	RequestID       string    `json:"request_id"`
	UserID          string    `json:"user_id"`
	SafetyScore     int       `json:"safety_score"`
	SafetyStatus    string    `json:"safety_status"`
	ConfidenceLevel string    `json:"confidence_level"`
	FaceMatchScore  float64   `json:"face_match_score"`
	IsLicense       bool      `json:"is_license"`
	LicenseHash     string    `json:"license_sha1"`
	PhotoHash       string    `json:"photo_sha1"`
	Details         string    `json:"details"`
	CreatedAt       time.Time `json:"created_at"`
}

// DuplicateReport lists prior verifications by the same user that uploaded
// the same license image.
type DuplicateReport struct {
	Request    *repository.VerificationLog
	Duplicates []*repository.VerificationLog
}

// NewVerificationUseCase constructs a new use case instance.
func NewVerificationUseCase(repo VerificationRepository, cache Cache, visionClient vision.Client, engine *scoring.Engine, logger *zap.Logger) *VerificationUseCase {
	return &VerificationUseCase{
		repo:           repo,
		cache:          cache,
		vision:         visionClient,
		engine:         engine,
		logger:         logger.Named("verification_usecase"),
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// VerifyLicense runs the full flow for one request pair: the claimed license
// image and the live user photo. It returns the request id and the scoring
// report. Zero faces in either image is a valid degraded outcome, not an
// error; only transport, persistence and decode failures surface as errors.
func (uc *VerificationUseCase) VerifyLicense(ctx context.Context, userID string, licenseImage, userPhoto []byte) (string, *scoring.Result, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.verify_license", requestID)

	cacheKey := cacheKeyFor(requestID)
	if err := uc.withRedisRetry(ctx, requestID, "cache.set.processing", func() error {
		return uc.cache.Set(ctx, cacheKey, "processing", processingTTL)
	}); err != nil {
		opLogger.Error("failed to set processing flag", zap.Error(err))
		return "", nil, err
	}

	preparedLicense, err := imaging.Prepare(licenseImage)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.prepare_license_image", requestID, err)
		opLogger.Warn("license image rejected", zap.Error(wrapped))
		return "", nil, wrapped
	}
	preparedPhoto, err := imaging.Prepare(userPhoto)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.prepare_user_photo", requestID, err)
		opLogger.Warn("user photo rejected", zap.Error(wrapped))
		return "", nil, wrapped
	}

	text, err := uc.vision.ExtractText(ctx, preparedLicense)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.extract_text", requestID, err)
		opLogger.Error("ocr failed", zap.Error(wrapped))
		return "", nil, wrapped
	}
	licenseFaces, err := uc.vision.DetectFaces(ctx, preparedLicense)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.detect_license_faces", requestID, err)
		opLogger.Error("license face detection failed", zap.Error(wrapped))
		return "", nil, wrapped
	}
	userFaces, err := uc.vision.DetectFaces(ctx, preparedPhoto)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.detect_user_faces", requestID, err)
		opLogger.Error("user face detection failed", zap.Error(wrapped))
		return "", nil, wrapped
	}

	result := uc.engine.Score(text, licenseFaces, userFaces)
	opLogger.Info("scored verification request",
		zap.Int("safety_score", result.SafetyScore),
		zap.String("safety_status", string(result.SafetyStatus)),
		zap.Bool("is_license", result.IsLicense),
		zap.Float64("face_match_score", result.FaceMatchScore),
		zap.Int("license_faces", result.FacesFound.LicenseFaces),
		zap.Int("user_faces", result.FacesFound.UserFaces))

	details, err := json.Marshal(result)
	if err != nil {
		opLogger.Error("failed to serialize scoring result", zap.Error(err))
		return "", nil, err
	}

	log := &repository.VerificationLog{
		RequestID:       requestID,
		UserID:          userID,
		SafetyScore:     result.SafetyScore,
		SafetyStatus:    string(result.SafetyStatus),
		ConfidenceLevel: string(result.ConfidenceLevel),
		FaceMatchScore:  result.FaceMatchScore,
		IsLicense:       result.IsLicense,
		LicenseSHA1:     hashHex(licenseImage),
		PhotoSHA1:       hashHex(userPhoto),
		Details:         string(details),
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.repo.SaveLog(ctx, log); err != nil {
		wrapped := logging.NewOperationError("usecase.save_log", requestID, err)
		opLogger.Error("failed to persist verification log", zap.Error(wrapped))
		return "", nil, wrapped
	}

	cached := cachedVerification{
		RequestID:       log.RequestID,
		UserID:          log.UserID,
		SafetyScore:     log.SafetyScore,
		SafetyStatus:    log.SafetyStatus,
		ConfidenceLevel: log.ConfidenceLevel,
		FaceMatchScore:  log.FaceMatchScore,
		IsLicense:       log.IsLicense,
		LicenseHash:     log.LicenseSHA1,
		PhotoHash:       log.PhotoSHA1,
		Details:         log.Details,
		CreatedAt:       log.CreatedAt,
	}

	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Error("failed to serialize verification result", zap.Error(err))
		return "", nil, err
	}

	if err := uc.withRedisRetry(ctx, requestID, "cache.set.result", func() error {
		return uc.cache.Set(ctx, cacheKey, string(serialized), resultTTL)
	}); err != nil {
		opLogger.Error("failed to cache verification result", zap.Error(err))
		return "", nil, err
	}

	return requestID, result, nil
}

// GetResult retrieves a verification outcome from cache, falling back to
// persistence on a miss.
func (uc *VerificationUseCase) GetResult(ctx context.Context, userID, requestID string) (*repository.VerificationLog, error) {
	cacheKey := cacheKeyFor(requestID)
	if cached, err := uc.withRedisGet(ctx, requestID, "cache.get.result", cacheKey); err == nil {
		var payload cachedVerification
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to decode cached result", zap.Error(err))
		} else if payload.UserID == userID {
			return &repository.VerificationLog{
				RequestID:       payload.RequestID,
				UserID:          payload.UserID,
				SafetyScore:     payload.SafetyScore,
				SafetyStatus:    payload.SafetyStatus,
				ConfidenceLevel: payload.ConfidenceLevel,
				FaceMatchScore:  payload.FaceMatchScore,
				IsLicense:       payload.IsLicense,
				LicenseSHA1:     payload.LicenseHash,
				PhotoSHA1:       payload.PhotoHash,
				Details:         payload.Details,
				CreatedAt:       payload.CreatedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to read cache", zap.Error(err))
	}

	return uc.repo.FindByRequestIDAndUser(ctx, requestID, userID)
}

// GetDuplicateReport builds a duplicate detection report for a verification
// request, keyed on the license image hash.
func (uc *VerificationUseCase) GetDuplicateReport(ctx context.Context, userID, requestID string) (*DuplicateReport, error) {
	log, err := uc.repo.FindByRequestIDAndUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	duplicates, err := uc.repo.FindDuplicatesByHash(ctx, userID, log.LicenseSHA1, log.RequestID)
	if err != nil {
		return nil, err
	}

	return &DuplicateReport{
		Request:    log,
		Duplicates: duplicates,
	}, nil
}

func cacheKeyFor(requestID string) string {
	return fmt.Sprintf("verification:%s", requestID)
}

func hashHex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (uc *VerificationUseCase) withRedisRetry(ctx context.Context, requestID, operation string, fn func() error) error {
	if uc.retryAttempts <= 1 {
		return logging.NewOperationError(operation, requestID, fn())
	}

	backoff := uc.initialBackoff
	opLogger := logging.WithOperation(uc.logger, operation, requestID)
	var err error
	for attempt := 0; attempt < uc.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, requestID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= uc.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("redis operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == uc.retryAttempts-1 {
			opLogger.Error("redis operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, requestID, err)
		}

		opLogger.Warn("transient redis error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, requestID, err)
}

func (uc *VerificationUseCase) withRedisGet(ctx context.Context, requestID, operation, cacheKey string) (string, error) {
	var result string
	err := uc.withRedisRetry(ctx, requestID, operation, func() error {
		value, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, redis.Nil) {
		return false
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}
