package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// Client is the interface both completion implementations satisfy.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Response, error)
}

// Response holds the raw response content and token usage.
type Response struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// NewFromEnv picks the API client, or the mock when MOCK_LLM is set.
func NewFromEnv() Client {
	if os.Getenv("MOCK_LLM") == "true" {
		log.Println("LLM client using mock data")
		return NewMockClient()
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	log.Println("LLM client using Anthropic API:", model)
	return NewAPIClient(model)
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.7),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &Response{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

// MockClient serves canned responses: quiz-shaped JSON for generation calls
// (no system prompt) and a short markdown answer for chat calls.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (*Response, error) {
	content := mockQuizJSON(5)
	if systemPrompt != "" {
		content = mockChatAnswer()
	}
	return &Response{
		Content:      content,
		PromptTokens: 800,
		OutputTokens: 1200,
	}, nil
}

func mockQuizJSON(count int) string {
	topics := []string{
		"photosynthesis", "the French Revolution", "binary search",
		"plate tectonics", "supply and demand", "the water cycle",
	}

	out := "["
	for i := 0; i < count; i++ {
		topic := topics[i%len(topics)]
		correct := fmt.Sprintf("[Mock] The accurate statement about %s", topic)

		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"question":"[Mock] Which of the following best describes %s?","options":["%s","[Mock] A common misconception about %s","[Mock] An unrelated claim about %s","[Mock] A partially true claim about %s"],"correctAnswer":"%s","explanation":"[Mock] This option is correct because it matches the standard definition of %s."}`,
			topic, correct, topic, topic, topic, correct, topic)
	}
	out += "]"
	return out
}

func mockChatAnswer() string {
	return "### Summary\n\n[Mock] Based on the document, here is what I found:\n\n- The document covers the requested topic.\n- > \"A representative quote from the text.\"\n\nLet me know if you want more detail."
}
