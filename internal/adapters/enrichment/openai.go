package enrichment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-dashboard/internal/domain"
	openai "news-dashboard/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// EmptySummary is returned for empty input without touching the backend.
const EmptySummary = "No content available"

const (
	summarizePrompt = "Summarize the following article."
	sentimentPrompt = "Analyze the sentiment of the following text. Only return whether it's Positive, Negative, or Neutral, nothing else."
	keyPhrasePrompt = "Extract key phrases from the following text. Return a list of key phrases, up to 5."
)

// OpenAI implements domain.Enricher over the Chat Completions API.
type OpenAI struct {
	client  chatClient
	model   string
	timeout time.Duration
}

var _ domain.Enricher = (*OpenAI)(nil)

// NewOpenAI creates the enricher.
func NewOpenAI(client chatClient, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{client: client, model: model, timeout: timeout}
}

// Summarize requests a concise summary of the text.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return EmptySummary, nil
	}
	reply, err := o.complete(ctx, summarizePrompt, text)
	if err != nil {
		return "", &domain.EnrichmentError{Op: "summarize", Err: err}
	}
	return reply, nil
}

// ClassifySentiment requests exactly one of the three labels. Any reply not
// matching a label case-insensitively is coerced to Neutral.
func (o *OpenAI) ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	reply, err := o.complete(ctx, sentimentPrompt, text)
	if err != nil {
		return "", &domain.EnrichmentError{Op: "classify_sentiment", Err: err}
	}
	return domain.NormalizeSentiment(reply), nil
}

// KeyPhrases requests up to five key phrases.
func (o *OpenAI) KeyPhrases(ctx context.Context, text string) ([]string, error) {
	reply, err := o.complete(ctx, keyPhrasePrompt, text)
	if err != nil {
		return nil, &domain.EnrichmentError{Op: "key_phrases", Err: err}
	}
	return SplitPhrases(reply), nil
}

func (o *OpenAI) complete(ctx context.Context, instruction, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: instruction},
			{Role: openai.RoleUser, Content: text},
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SplitPhrases splits a newline- or comma-delimited reply, trims each entry,
// drops empties and caps the result at MaxKeyPhrases.
func SplitPhrases(reply string) []string {
	parts := strings.FieldsFunc(reply, func(r rune) bool {
		return r == '\n' || r == ','
	})
	phrases := make([]string, 0, len(parts))
	for _, part := range parts {
		phrase := strings.TrimSpace(part)
		phrase = strings.TrimPrefix(phrase, "- ")
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		phrases = append(phrases, phrase)
		if len(phrases) == domain.MaxKeyPhrases {
			break
		}
	}
	return phrases
}
