package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/knakagawa/citylens/internal/model"
)

// OpenAIProducer generates raw analyses with an OpenAI chat model. The
// model's output is treated exactly like any other producer output: it is
// parsed, normalized and then repaired by the consistency checker, which
// is where LLM-typical defects (spurious precision, contradictory prose)
// get caught.
type OpenAIProducer struct {
	client *openai.Client
	cfg    model.ProducerConfig
}

// NewOpenAIProducer creates an OpenAI-backed producer
func NewOpenAIProducer(cfg model.ProducerConfig) (*OpenAIProducer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProducer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the producer name
func (p *OpenAIProducer) Name() string {
	return "openai"
}

// Produce asks the model for a JSON analysis object and parses it
func (p *OpenAIProducer) Produce(ctx context.Context, req Request) (*model.Analysis, error) {
	chatModel := p.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model:     chatModel,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a Japanese residential lifestyle analyst. Respond only with a JSON object.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := cleanJSON(resp.Choices[0].Message.Content)

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis JSON: %w", err)
	}
	analysis.Address = req.Address
	analysis.Normalize()

	return &analysis, nil
}

// buildPrompt constructs the analysis request prompt
func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "次の住所の生活利便性を分析してください: %s\n", req.Address)
	if req.Coordinates != nil {
		fmt.Fprintf(&b, "座標: %.5f, %.5f\n", req.Coordinates.Lat, req.Coordinates.Lng)
	}
	b.WriteString(`
次のスキーマのJSONのみを返してください:
{
  "lifestyleScore": {"transport": 0-100, "shopping": 0-100, "medical": 0-100, "education": 0-100, "environment": 0-100, "safety": 0-100},
  "detailedAnalysis": {"strengths": ["..."], "weaknesses": ["..."]},
  "capabilities": {"usedGovernmentStats": bool, "usedPlacesApi": bool, "usedTransitData": bool, "usedCrimeData": bool, "usedSchoolData": bool}
}
強み・弱みの各文には「交通85点で便利です」のようにカテゴリ名とスコアを含めてください。`)
	return b.String()
}

// cleanJSON strips markdown code fences some models wrap around JSON output
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
