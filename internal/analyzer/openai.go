package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIAnalyzer classifies text emotion through an OpenAI-compatible chat
// completion endpoint. It is a drop-in replacement for the keyword heuristic:
// same contract, same normalization invariant. API failures surface as
// *model.TransportError so the pipeline falls back to the local analyzer.
type OpenAIAnalyzer struct {
	client *openai.Client
	config model.OpenAIConfig
}

// NewOpenAIAnalyzer creates an LLM-backed text analyzer.
func NewOpenAIAnalyzer(cfg model.OpenAIConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the analyzer name
func (p *OpenAIAnalyzer) Name() string {
	return "text-openai"
}

// IsAvailable checks if the API is properly configured
func (p *OpenAIAnalyzer) IsAvailable(ctx context.Context) bool {
	// Lightweight API call; also surfaces API key problems early
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Analyze asks the model for a strict JSON emotion distribution and
// normalizes the parsed result.
func (p *OpenAIAnalyzer) Analyze(ctx context.Context, in Input) (model.EmotionDistribution, error) {
	text := PreprocessText(in.Text)
	if text == "" {
		return nil, model.NewAnalysisError(model.ModalityText, fmt.Errorf("text is empty after preprocessing"))
	}

	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	chatReq := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an emotion classification engine. You respond with JSON only, never prose.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildClassifyPrompt(text),
			},
		},
		MaxTokens:   300,
		Temperature: 0.3, // Lower temperature for more consistent classifications
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, model.NewTransportError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return nil, model.NewTransportError("openai", fmt.Errorf("no response choices"))
	}

	dist, err := parseEmotionJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, model.NewTransportError("openai", err)
	}
	return dist.Normalized(), nil
}

// buildClassifyPrompt constructs the classification prompt.
func buildClassifyPrompt(text string) string {
	return fmt.Sprintf(`Classify the emotional content of the text below.

Respond with ONLY a JSON array in this exact form:
[{"emotion": "joy", "confidence": 72.5}]

Rules:
- Use only these labels: %s
- Confidence is a relative score from 0 to 100.
- Include at most 5 emotions, strongest first.

Text:
%s`, strings.Join(model.CanonicalLabels, ", "), text)
}

// parseEmotionJSON decodes the model's reply, tolerating code fences and
// surrounding prose by extracting the outermost JSON array.
func parseEmotionJSON(content string) (model.EmotionDistribution, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model reply")
	}

	var dist model.EmotionDistribution
	if err := json.Unmarshal([]byte(content[start:end+1]), &dist); err != nil {
		return nil, fmt.Errorf("unmarshal emotions: %w", err)
	}
	if len(dist) == 0 {
		return nil, fmt.Errorf("model reply contained no emotions")
	}

	for i := range dist {
		dist[i].Emotion = strings.ToLower(strings.TrimSpace(dist[i].Emotion))
		if dist[i].Confidence < 0 {
			dist[i].Confidence = 0
		}
	}
	return dist, nil
}
