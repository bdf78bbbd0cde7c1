// Package summary renders the daily digest. When an Anthropic API key is
// configured the text comes from the model; otherwise (or on any API
// failure) a canned fallback is used. Either way the digest is best
// effort and never touches reward state.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Input is the day's bookkeeping the digest is written from.
type Input struct {
	UserName            string
	TasksCompletedToday int
	TasksOpenToday      int
	DailyScore          int
}

// Output is the rendered digest.
type Output struct {
	PersonalizedSummary string `json:"personalizedSummary"`
	DailyScoreBlurb     string `json:"dailyScoreBlurb"`
}

// Fallback is the offline digest.
func Fallback(in Input) Output {
	var b strings.Builder
	fmt.Fprintf(&b, "You completed %d task(s) today", in.TasksCompletedToday)
	if in.TasksOpenToday > 0 {
		fmt.Fprintf(&b, " with %d still open", in.TasksOpenToday)
	}
	b.WriteString(". ")
	switch {
	case in.TasksCompletedToday == 0:
		b.WriteString("Every big day starts with one small task — pick an easy one and get rolling!")
	case in.DailyScore >= 100:
		b.WriteString("Outstanding pace — keep this energy going!")
	default:
		b.WriteString("Nice and steady. Keep checking things off!")
	}
	return Output{
		PersonalizedSummary: b.String(),
		DailyScoreBlurb:     "Daily Points",
	}
}

// Client talks to the Anthropic API.
type Client struct {
	inner anthropic.Client
	model anthropic.Model
}

func NewClient(apiKey string) *Client {
	return &Client{
		inner: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: anthropic.ModelClaude3_5Haiku20241022,
	}
}

const systemPrompt = `You write a short, upbeat daily productivity digest.
Respond with only a JSON object with two string fields:
"personalizedSummary" (2-3 sentences addressing the user by name) and
"dailyScoreBlurb" (a fun 2-4 word title for their daily score).`

// Generate renders the digest via the API.
func (c *Client) Generate(ctx context.Context, in Input) (Output, error) {
	prompt := fmt.Sprintf(
		"Name: %s. Tasks completed today: %d. Tasks still open today: %d. Daily score: %d points.",
		in.UserName, in.TasksCompletedToday, in.TasksOpenToday, in.DailyScore,
	)

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Output{}, fmt.Errorf("summary API call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	var out Output
	if err := json.Unmarshal([]byte(extractJSON(text.String())), &out); err != nil {
		return Output{}, fmt.Errorf("parse summary response: %w", err)
	}
	if out.PersonalizedSummary == "" || out.DailyScoreBlurb == "" {
		return Output{}, fmt.Errorf("summary response missing fields")
	}
	return out, nil
}

// Generate returns the best available digest: the API when a key is set
// and the call succeeds, the fallback otherwise.
func Generate(ctx context.Context, apiKey string, in Input) Output {
	if apiKey == "" {
		return Fallback(in)
	}
	out, err := NewClient(apiKey).Generate(ctx, in)
	if err != nil {
		return Fallback(in)
	}
	return out
}

// extractJSON trims any prose around the first JSON object in s.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
