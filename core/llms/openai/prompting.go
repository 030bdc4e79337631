// Package openai implements the inference-engine boundary against the
// OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/jinzhu/copier"
	"github.com/menschrobotics/ruby-core/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const url = "https://api.openai.com/v1/chat/completions"

const defaultModel = "gpt-4o"

type Client struct {
	apiKey string
	model  string
}

// NewClient builds a client using the OPENAI_API_KEY environment variable.
func NewClient(model string) (*Client, error) {
	apiKey, ok := os.LookupEnv("OPENAI_API_KEY")
	if !ok {
		return nil, fmt.Errorf("openai api key not found")
	}

	if model == "" {
		model = defaultModel
	}

	return &Client{apiKey: apiKey, model: model}, nil
}

// Prompt performs a single model call. The response is either a final reply
// or a set of tool-call requests; executing tools and re-prompting is the
// caller's responsibility.
func (c *Client) Prompt(ctx context.Context, opts ...llms.PromptOption) (*llms.Response, error) {
	options := llms.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "openai chat completion")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	var tools []tool
	if options.Tools != nil {
		if err := copier.Copy(&tools, options.Tools); err != nil {
			return nil, fmt.Errorf("failed to copy tool definitions: %w", err)
		}
	}

	reqBody := requestBody{
		Model:    c.model,
		Messages: toMessages(options.Instructions, options.Turns),
		Tools:    tools,
	}
	if len(tools) > 0 {
		toolChoice := "auto"
		reqBody.ToolChoice = &toolChoice
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
			return "openai chat completion request"
		}),
	)}
	resp, err := client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var responseBody responseBodyType
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	if len(responseBody.Choices) == 0 {
		logger.WarnContext(ctx, "no choices returned for completion")
		return &llms.Response{}, nil
	}

	choice := responseBody.Choices[0].Message
	response := llms.Response{Content: choice.Content}
	for _, tCall := range choice.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, llms.ToolCall{
			ID:        tCall.ID,
			Name:      tCall.Function.Name,
			Arguments: tCall.Function.Arguments,
		})
	}

	if options.Stream != nil && response.Content != "" {
		options.Stream(response.Content)
	}

	return &response, nil
}

type requestBody struct {
	Model      string    `json:"model"`
	Messages   []message `json:"messages"`
	Tools      []tool    `json:"tools,omitempty"`
	ToolChoice *string   `json:"tool_choice,omitempty"`
}

type responseBodyType struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
