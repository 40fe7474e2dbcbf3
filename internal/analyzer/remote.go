package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/util"
	"golang.org/x/time/rate"
)

// maxRemoteBody caps how much of a backend response is read.
const maxRemoteBody = 1 << 20

// RemoteAnalyzer delegates one modality's analysis to an HTTP model backend.
// Requests are rate-limited with a token bucket so bursts of analyses do not
// overwhelm the backend. Transport failures come back as
// *model.TransportError so the pipeline can fall back to a local analyzer.
type RemoteAnalyzer struct {
	modality   model.Modality
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Remote API structures
type remoteTextRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Emotions model.EmotionDistribution `json:"emotions"`
}

type remoteError struct {
	Error string `json:"error"`
}

// NewRemoteAnalyzer creates a client for the configured backend.
func NewRemoteAnalyzer(m model.Modality, cfg model.RemoteConfig) *RemoteAnalyzer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = model.DefaultConfig().Remote.Timeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 10
	}

	return &RemoteAnalyzer{
		modality: m,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name returns the analyzer name
func (p *RemoteAnalyzer) Name() string {
	return "remote-" + string(p.modality)
}

// IsAvailable checks the backend health endpoint.
func (p *RemoteAnalyzer) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/health", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backend availability check failed (request creation): %v\n", err)
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backend availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Backend availability check failed (HTTP %d from %s)\n", resp.StatusCode, p.baseURL)
		return false
	}

	return true
}

// Analyze posts the input to the backend and decodes the distribution. The
// result is normalized locally so the contract holds even if the backend
// returns raw scores.
func (p *RemoteAnalyzer) Analyze(ctx context.Context, in Input) (model.EmotionDistribution, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var (
		resp *remoteResponse
		err  error
	)
	if p.modality == model.ModalityText {
		resp, err = p.postJSON(ctx, in)
	} else {
		resp, err = p.postFile(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	if len(resp.Emotions) == 0 {
		return nil, model.NewAnalysisError(p.modality, fmt.Errorf("backend returned no emotions"))
	}
	return resp.Emotions.Normalized(), nil
}

// postJSON sends the text modality as a JSON body.
func (p *RemoteAnalyzer) postJSON(ctx context.Context, in Input) (*remoteResponse, error) {
	body, err := json.Marshal(remoteTextRequest{Text: PreprocessText(in.Text)})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return p.send(ctx, bytes.NewReader(body), "application/json")
}

// postFile sends a file modality as a multipart upload.
func (p *RemoteAnalyzer) postFile(ctx context.Context, in Input) (*remoteResponse, error) {
	field := "audio"
	if p.modality == model.ModalityVisual {
		field = "image"
	}
	filename := in.Filename
	if filename == "" {
		filename = field
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return p.send(ctx, &buf, w.FormDataContentType())
}

// send performs the HTTP exchange and maps failures onto the error taxonomy:
// connection problems and 5xx responses are transport errors, 4xx responses
// mean the backend rejected this input.
func (p *RemoteAnalyzer) send(ctx context.Context, body io.Reader, contentType string) (*remoteResponse, error) {
	url := fmt.Sprintf("%s/analyze/%s", p.baseURL, p.modality)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, model.NewTransportError(url, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 500 {
		return nil, model.NewTransportError(url, fmt.Errorf("backend error (%d): %s", resp.StatusCode, errorMessage(respBody)))
	}
	if resp.StatusCode >= 400 {
		return nil, model.NewAnalysisError(p.modality, fmt.Errorf("backend rejected input (%d): %s", resp.StatusCode, errorMessage(respBody)))
	}

	var out remoteResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, model.NewTransportError(url, fmt.Errorf("unmarshal response: %w", err))
	}
	return &out, nil
}

// errorMessage extracts the backend's error string when the body carries one.
func errorMessage(body []byte) string {
	var apiErr remoteError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(body))
}
