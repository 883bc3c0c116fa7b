package visionclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestExtractText(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ocr" {
			t.Errorf("expected path /api/ocr, got %s", r.URL.Path)
		}
		var req struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Image != base64.StdEncoding.EncodeToString(image) {
			t.Error("image payload not base64 of the upload")
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "DRIVER LICENSE"})
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	text, err := client.ExtractText(context.Background(), image)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if text != "DRIVER LICENSE" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDetectFacesEmptyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/faces" {
			t.Errorf("expected path /api/faces, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string][][]float64{"encodings": {}})
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	encodings, err := client.DetectFaces(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("zero faces must not be an error, got %v", err)
	}
	if len(encodings) != 0 {
		t.Fatalf("expected no encodings, got %d", len(encodings))
	}
}

func TestDetectFacesDecodesEncodings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][][]float64{"encodings": {{0.1, 0.2}, {0.3, 0.4}}})
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	encodings, err := client.DetectFaces(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(encodings) != 2 || len(encodings[0]) != 2 {
		t.Fatalf("unexpected encodings: %v", encodings)
	}
}

func TestNonOKStatusSurfacesAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	if _, err := client.ExtractText(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error on 500")
	}
	if _, err := client.DetectFaces(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/healthz" {
			t.Errorf("expected path /api/healthz, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop())
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
