package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	openai "github.com/sashabaranov/go-openai"
)

const perplexityBaseURL = "https://api.perplexity.ai"

// lookupSystemPrompt mandates one of three JSON shapes so the parser chain
// has something predictable to aim at.
const lookupSystemPrompt = `You are an AI assistant that finds product prices and links at major online retailers. ` +
	`Given an item name, find the most likely matching product currently available for online purchase from retailers like Amazon, Walmart, Target, Chewy, etc. ` +
	`Respond in JSON format with price, retailer, and a direct link to the product. ` +
	`Your response should be structured as: ` +
	"```json\n{\"price\": \"$XX.XX\", \"retailer\": \"Store Name\", \"url\": \"https://direct-product-link.com\"}\n```\n" +
	`If multiple prices or variations exist, respond with: ` +
	"```json\n{\"price\": \"Price Varies\", \"retailer\": \"Multiple\", \"url\": \"https://best-match-link.com\"}\n```\n" +
	`If the exact item is not found after checking common retailers, respond with: ` +
	"```json\n{\"price\": \"Not Found\", \"retailer\": \"N/A\", \"url\": null}\n```\n" +
	`Always provide a valid JSON response.`

// Perplexity implements the Looker interface against Perplexity's
// web-search-augmented chat API, which is OpenAI-compatible.
type Perplexity struct {
	client *openai.Client
	model  string
}

// NewPerplexity creates a new Perplexity Looker instance
func NewPerplexity(apiKey string, modelName string) (*Perplexity, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("perplexity api key is required")
	}
	if modelName == "" {
		modelName = "sonar-pro"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = perplexityBaseURL

	// Retry with backoff keeps us inside the service's rate limits
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	cfg.HTTPClient = rc.StandardClient()

	return &Perplexity{
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
	}, nil
}

// LookupPrice finds an online reference price for an item. Network failures,
// timeouts, and unparseable replies all fold into a StatusError Result.
func (p *Perplexity) LookupPrice(ctx context.Context, itemName string) Result {
	ctx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	cleaned := strings.TrimSpace(strings.ReplaceAll(itemName, "^", ""))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: lookupSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Find the online price and direct link for: " + cleaned},
		},
	})
	if err != nil {
		slog.Error("Price lookup request failed", "item", cleaned, "error", err)
		return Result{Status: StatusError, Details: fmt.Sprintf("Error contacting price service: %v", err)}
	}

	if len(resp.Choices) == 0 {
		return Result{Status: StatusError, Details: "Empty response from price service"}
	}

	return parseResponse(resp.Choices[0].Message.Content)
}
