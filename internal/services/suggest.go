// suggest.go
//
// Tag suggestions via a hosted language model. The endpoint is advisory:
// short content, a missing API key, a tripped breaker or any model failure
// all degrade to an empty suggestion list, never an error to the caller.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// minSuggestContentLength is the shortest trimmed content worth sending to
// the model.
const minSuggestContentLength = 20

const suggestTagsPrompt = `You are an expert in content categorization. Given the content of a post, you will suggest relevant tags to improve its discoverability and reach the appropriate audience.

Post Content: %s

Please provide a list of suggested tags that are most relevant to the post content. Focus on suggesting tags that will help the author reach the target audience.
Tags should be descriptive and concise.
Respond with a JSON object of the form {"suggestedTags": ["tag", ...]} and nothing else.`

// TagSuggester calls the generative model behind a circuit breaker. A zero
// suggester (no API key configured) is valid and always suggests nothing.
type TagSuggester struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewTagSuggester creates a suggester. An empty apiKey yields a disabled
// suggester rather than an error so the service runs without model access.
func NewTagSuggester(ctx context.Context, apiKey, model string) (*TagSuggester, error) {
	if apiKey == "" {
		log.Println("GENAI_API_KEY not set, tag suggestions disabled")
		return &TagSuggester{}, nil
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "tag-suggest",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &TagSuggester{
		client:  client,
		model:   model,
		breaker: breaker,
	}, nil
}

// SuggestTags returns tags for the given post content. Content shorter
// than minSuggestContentLength after trimming is not sent to the model.
func (ts *TagSuggester) SuggestTags(ctx context.Context, postContent string) []string {
	postContent = strings.TrimSpace(postContent)
	if len(postContent) < minSuggestContentLength || ts.client == nil {
		return []string{}
	}

	result, err := ts.breaker.Execute(func() (interface{}, error) {
		return ts.generate(ctx, postContent)
	})
	if err != nil {
		log.Printf("WARN tag suggestion failed: %v", err)
		return []string{}
	}

	tags, ok := result.([]string)
	if !ok || tags == nil {
		return []string{}
	}
	return tags
}

func (ts *TagSuggester) generate(ctx context.Context, postContent string) ([]string, error) {
	prompt := fmt.Sprintf(suggestTagsPrompt, postContent)

	resp, err := ts.client.Models.GenerateContent(ctx, ts.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	var parsed struct {
		SuggestedTags []string `json:"suggestedTags"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("unexpected model response: %w", err)
	}
	return parsed.SuggestedTags, nil
}
