package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/leasedesk/leasedesk/backend/config"
	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/tidwall/gjson"
)

// Suggestion is an AI-drafted clause rewrite with the model's own
// confidence estimate. It is an annotation side-channel only: nothing
// in the filter/group/classify pipeline ever reads it.
type Suggestion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SuggestService drafts clause rewrites with the Anthropic API.
type SuggestService struct {
	config *config.SuggestConfig
	client anthropic.Client
}

func NewSuggestService(cfg *config.SuggestConfig) *SuggestService {
	return &SuggestService{
		config: cfg,
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
	}
}

// Enabled reports whether an API key is configured.
func (s *SuggestService) Enabled() bool {
	return s.config.APIKey != ""
}

const suggestSystemPrompt = `You are a commercial lease reviewer. Given one lease clause, draft an improved version that protects the tenant while staying commercially reasonable. Respond with a JSON object only: {"suggested_text": "...", "confidence": 0.0-1.0}.`

// SuggestRewrite asks the model for a rewrite of one clause. The
// response must be the JSON object described in the system prompt;
// anything else is an error, never a partial suggestion.
func (s *SuggestService) SuggestRewrite(ctx context.Context, clause model.Clause) (*Suggestion, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("suggestion service not configured")
	}

	userPrompt := fmt.Sprintf("Clause %s (%s, risk %s):\n\n%s", clause.ID, clause.Category, clause.Risk, clause.ClauseDetails)

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: suggestSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseSuggestion(block.Text)
		}
	}
	return nil, fmt.Errorf("no text content in model response")
}

// parseSuggestion extracts the suggestion object from the model's
// reply, tolerating surrounding prose or a code fence.
func parseSuggestion(reply string) (*Suggestion, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("model reply contains no JSON object")
	}

	body := reply[start : end+1]
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("model reply is not valid JSON")
	}

	text := gjson.Get(body, "suggested_text").String()
	if text == "" {
		return nil, fmt.Errorf("model reply has no suggested_text")
	}

	confidence := gjson.Get(body, "confidence").Float()
	if confidence < 0 || confidence > 1 {
		confidence = 0
	}

	return &Suggestion{Text: text, Confidence: confidence}, nil
}
