package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	defaultSuggestTimeout = 10 * time.Second
	suggestMaxTokens      = 150
	suggestTemperature    = 0.7

	suggesterSystemPrompt = "You are a supportive mental health assistant."
)

// Fixed suggestion strings. Coping advice is fail-open: the user always gets
// something supportive back, even with the generation backend down or unset.
const (
	DisabledSuggestion = "AI-powered coping suggestions are currently unavailable. Consider talking to a trusted friend or professional about how you're feeling."
	FallbackSuggestion = "I'm here to support you. Consider talking to a trusted friend or professional about how you're feeling."
	EmptySuggestion    = "I'm here to support you. Consider talking to someone about how you're feeling."
)

// SuggesterConfig carries the generation backend credentials. An empty APIKey
// selects fallback-only mode once, at construction.
type SuggesterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Suggester produces a short coping suggestion for a classified journal entry
// via the OpenAI chat completions API.
type Suggester struct {
	enabled bool
	model   string
	client  openai.Client
}

func NewSuggester(cfg SuggesterConfig) *Suggester {
	key := strings.TrimSpace(cfg.APIKey)
	s := &Suggester{
		enabled: key != "",
		model:   strings.TrimSpace(cfg.Model),
	}
	if s.model == "" {
		s.model = string(openai.ChatModelGPT3_5Turbo)
	}
	if !s.enabled {
		return s
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	s.client = openai.NewClient(opts...)
	return s
}

// Enabled reports whether the suggester will make real network calls.
func (s *Suggester) Enabled() bool {
	return s.enabled
}

// Suggest returns a brief supportive suggestion for the given emotion and
// entry content. It never returns an error; failures yield a fixed fallback.
func (s *Suggester) Suggest(ctx context.Context, emotion, content string) string {
	if !s.enabled {
		return DisabledSuggestion
	}

	ctx, cancel := context.WithTimeout(ctx, defaultSuggestTimeout)
	defer cancel()

	prompt := fmt.Sprintf("The user is feeling %s about: %s. Provide a brief, supportive coping suggestion.", emotion, content)
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(suggesterSystemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(s.model),
		MaxTokens:   openai.Int(suggestMaxTokens),
		Temperature: openai.Float(suggestTemperature),
	})
	if err != nil {
		log.Printf("coping suggestion failed: %v", err)
		return FallbackSuggestion
	}

	if len(completion.Choices) == 0 {
		return EmptySuggestion
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return EmptySuggestion
	}
	return text
}
