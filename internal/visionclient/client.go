// Package visionclient talks to the OCR/face sidecar service over HTTP.
package visionclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Amelie-Fairweather/drivers-liscence/internal/logging"
	"github.com/Amelie-Fairweather/drivers-liscence/internal/vision"
)

const requestTimeout = 30 * time.Second

// Client implements vision.Client against the sidecar's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ vision.Client = (*Client)(nil)

// New builds a sidecar client for the given base URL.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.Named("visionclient"),
	}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type ocrResponse struct {
	Text string `json:"text"`
}

type facesResponse struct {
	Encodings [][]float64 `json:"encodings"`
}

// ExtractText runs the sidecar's OCR over the image and returns the raw
// text. A readable image with no text yields an empty string.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	var resp ocrResponse
	if err := c.post(ctx, "/api/ocr", image, &resp); err != nil {
		wrapped := logging.NewOperationError("visionclient.extract_text", "", err)
		c.logger.Error("ocr call failed", zap.Error(wrapped))
		return "", wrapped
	}
	return resp.Text, nil
}

// DetectFaces returns one encoding per face the sidecar found in the image.
// Zero faces is reported as an empty slice, never as an error.
func (c *Client) DetectFaces(ctx context.Context, image []byte) ([][]float64, error) {
	var resp facesResponse
	if err := c.post(ctx, "/api/faces", image, &resp); err != nil {
		wrapped := logging.NewOperationError("visionclient.detect_faces", "", err)
		c.logger.Error("face detection call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	return resp.Encodings, nil
}

// HealthCheck verifies the sidecar is reachable and answering.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, image []byte, out interface{}) error {
	payload, err := json.Marshal(analyzeRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
