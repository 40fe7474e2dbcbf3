package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/pipeline"
)

func newTestServer(t *testing.T, mutate func(*model.Config)) *httptest.Server {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Analyzers.Seed = 7
	if mutate != nil {
		mutate(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	ts := httptest.NewServer(New(p, cfg.Server, logger).Router())
	t.Cleanup(ts.Close)
	return ts
}

type filePart struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, text string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if text != "" {
		if err := mw.WriteField("text", text); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(f.content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.Gray{Y: 100})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var health healthResponse
	decodeJSON(t, resp, &health)

	if health.Status != "healthy" {
		t.Errorf("Expected healthy status, got %s", health.Status)
	}
	if health.Version != "9.0.0" {
		t.Errorf("Expected version 9.0.0, got %s", health.Version)
	}
	if len(health.ModelsLoaded) != 3 {
		t.Errorf("Expected 3 models, got %v", health.ModelsLoaded)
	}
	for m, loaded := range health.ModelsLoaded {
		if !loaded {
			t.Errorf("Expected %s model to be loaded", m)
		}
	}

	found := false
	for _, ext := range health.SupportedFormats["audio"] {
		if ext == "wav" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected wav in audio formats, got %v", health.SupportedFormats["audio"])
	}
}

func TestHandleAnalyze_TextOnly(t *testing.T) {
	ts := newTestServer(t, nil)

	body, contentType := multipartBody(t, "I am so happy today")
	resp, err := http.Post(ts.URL+"/analyze", contentType, body)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var report model.Report
	decodeJSON(t, resp, &report)

	if report.Version != "9.0.0" {
		t.Errorf("Expected version 9.0.0, got %s", report.Version)
	}
	if _, ok := report.TextEmotions.Get("joy"); !ok {
		t.Errorf("Expected joy in text emotions: %v", report.TextEmotions)
	}
	if len(report.Combined) == 0 {
		t.Error("Expected combined emotions")
	}
	if len(report.Modalities) != 1 || report.Modalities[0] != model.ModalityText {
		t.Errorf("Expected modalities [text], got %v", report.Modalities)
	}
	if report.Insight == "" {
		t.Error("Expected an insight")
	}
}

func TestHandleAnalyze_WithImage(t *testing.T) {
	ts := newTestServer(t, nil)

	body, contentType := multipartBody(t, "what a great day",
		filePart{field: "image", filename: "face.png", content: testPNG(t)})
	resp, err := http.Post(ts.URL+"/analyze", contentType, body)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var report model.Report
	decodeJSON(t, resp, &report)

	if len(report.VisualEmotions) == 0 {
		t.Error("Expected visual emotions for a PNG upload")
	}
	if len(report.Modalities) != 2 {
		t.Errorf("Expected two modalities, got %v", report.Modalities)
	}
}

func TestHandleAnalyze_EmptyRequest(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/analyze", "application/x-www-form-urlencoded", strings.NewReader(""))
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	var body map[string]any
	decodeJSON(t, resp, &body)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "no input") {
		t.Errorf("Expected no-input error message, got %v", body)
	}
}

func TestHandleAnalyze_OversizeBody(t *testing.T) {
	ts := newTestServer(t, func(cfg *model.Config) {
		cfg.Server.MaxUploadBytes = 1 << 20
	})

	big := make([]byte, 2<<20)
	body, contentType := multipartBody(t, "",
		filePart{field: "image", filename: "huge.png", content: big})
	resp, err := http.Post(ts.URL+"/analyze", contentType, body)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413, got %d", resp.StatusCode)
	}

	var payload map[string]any
	decodeJSON(t, resp, &payload)
	if payload["max_size"] != "1MB" {
		t.Errorf("Expected max_size 1MB, got %v", payload["max_size"])
	}
}

func TestHandleAnalyze_UnsupportedExtensionIgnored(t *testing.T) {
	ts := newTestServer(t, nil)

	body, contentType := multipartBody(t, "I am happy",
		filePart{field: "audio", filename: "malware.exe", content: []byte("xx")})
	resp, err := http.Post(ts.URL+"/analyze", contentType, body)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 with the bad part ignored, got %d", resp.StatusCode)
	}

	var report model.Report
	decodeJSON(t, resp, &report)
	if len(report.AudioEmotions) != 0 {
		t.Errorf("Expected ignored audio part, got %v", report.AudioEmotions)
	}
	if len(report.Modalities) != 1 || report.Modalities[0] != model.ModalityText {
		t.Errorf("Expected modalities [text], got %v", report.Modalities)
	}
}

func TestHandleAnalyze_OnlyUnsupportedFile(t *testing.T) {
	ts := newTestServer(t, nil)

	body, contentType := multipartBody(t, "",
		filePart{field: "audio", filename: "clip.xyz", content: []byte("xx")})
	resp, err := http.Post(ts.URL+"/analyze", contentType, body)
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 when the only part is ignored, got %d", resp.StatusCode)
	}
}

func TestHandleModelsStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/models/status")
	if err != nil {
		t.Fatalf("GET /models/status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var status map[string]map[string]any
	decodeJSON(t, resp, &status)

	text, ok := status["text_analyzer"]
	if !ok {
		t.Fatalf("Expected text_analyzer entry, got %v", status)
	}
	if loaded, _ := text["loaded"].(bool); !loaded {
		t.Errorf("Expected text analyzer loaded, got %v", text)
	}

	combiner, ok := status["emotion_combiner"]
	if !ok {
		t.Fatalf("Expected emotion_combiner entry, got %v", status)
	}
	if combiner["strategy"] != "weighted_average" {
		t.Errorf("Expected weighted_average strategy, got %v", combiner["strategy"])
	}
}

func TestHandleNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}

	var body map[string]any
	decodeJSON(t, resp, &body)

	endpoints, _ := body["available_endpoints"].([]any)
	found := false
	for _, e := range endpoints {
		if e == "/analyze" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected /analyze in available endpoints, got %v", body)
	}
}
