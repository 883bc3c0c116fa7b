package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Amelie-Fairweather/drivers-liscence/internal/auth"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/imaging"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/scoring"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/usecase"
)

// MaxUploadSize bounds each uploaded image part.
const MaxUploadSize = 10 << 20

const (
	licenseImageField = "license_image"
	userPhotoField    = "user_photo"
)

type verifyResponse struct {
	RequestID string `json:"request_id"`
	scoring.Result
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.VerificationUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Driver License Verification API",
			"endpoints": gin.H{
				"health":  "/health",
				"verify":  "/verify",
				"result":  "/result/:id",
				"metrics": "/metrics/summary",
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Driver license verification API is running"})
	})

	authorized := router.Group("/", authMiddleware)

	authorized.POST("/verify", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}

		licenseData, ok := readImagePart(c, licenseImageField)
		if !ok {
			return
		}
		photoData, ok := readImagePart(c, userPhotoField)
		if !ok {
			return
		}

		requestID, result, err := uc.VerifyLicense(c.Request.Context(), userID, licenseData, photoData)
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or unsupported image format"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, verifyResponse{RequestID: requestID, Result: *result})
	})

	authorized.GET("/result/:id", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}

		requestID := c.Param("id")
		log, err := uc.GetResult(c.Request.Context(), userID, requestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":       log.RequestID,
			"user_id":          log.UserID,
			"safety_score":     log.SafetyScore,
			"safety_status":    log.SafetyStatus,
			"confidence_level": log.ConfidenceLevel,
			"face_match_score": log.FaceMatchScore,
			"is_license":       log.IsLicense,
			"details":          log.Details,
			"created_at":       log.CreatedAt,
		})
	})

	authorized.GET("/result/:id/duplicates", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}

		report, err := uc.GetDuplicateReport(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":      report.Request.RequestID,
			"license_sha1":    report.Request.LicenseSHA1,
			"duplicate_count": len(report.Duplicates),
			"duplicates":      report.Duplicates,
		})
	})

	authorized.GET("/metrics/summary", func(c *gin.Context) {
		summary, err := uc.GetMetricsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

// readImagePart pulls one image part out of the multipart form, enforcing
// presence, the per-part size cap and an image content type. It writes the
// error response itself and returns ok=false when the part is rejected.
func readImagePart(c *gin.Context, field string) ([]byte, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " is required"})
		return nil, false
	}

	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": field + " exceeds the upload size limit"})
		return nil, false
	}

	if !allowedContentType(file) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": field + " must be a PNG or JPEG image"})
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open " + field})
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read " + field})
		return nil, false
	}
	if len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": field + " exceeds the upload size limit"})
		return nil, false
	}

	return data, true
}

func allowedContentType(file *multipart.FileHeader) bool {
	switch strings.ToLower(file.Header.Get("Content-Type")) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}
