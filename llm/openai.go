package llm

import (
	"context"
	"errors"
	"fmt"

	"imagequeue/shared/models"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIExecutor implements Executor against the OpenAI API: chat
// completions for request analysis and image generations for rendering.
type OpenAIExecutor struct {
	client *openai.Client
	config Config
}

// NewOpenAIExecutor creates a new OpenAI executor.
func NewOpenAIExecutor(config Config) *OpenAIExecutor {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OpenAIExecutor{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Analyze implements Executor.Analyze.
func (o *OpenAIExecutor) Analyze(ctx context.Context, userText string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, wrapRemoteError("analysis request", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &MalformedResponseError{Reason: "no response from ChatGPT"}
	}

	return parseAnalysis(resp.Choices[0].Message.Content)
}

// Render implements Executor.Render.
func (o *OpenAIExecutor) Render(ctx context.Context, prompt string, quality models.ImageQuality, size models.ImageSize) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		N:              1,
		Quality:        string(quality),
		Size:           string(size),
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", wrapRemoteError("image request", err)
	}

	if len(resp.Data) == 0 {
		return "", &EmptyResultError{}
	}

	return resp.Data[0].URL, nil
}

// wrapRemoteError converts go-openai errors into RemoteCallError when the
// endpoint answered with a non-success status, preserving the remote message
// when one was provided. Transport-level failures are wrapped as-is.
func wrapRemoteError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteCallError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &RemoteCallError{StatusCode: reqErr.HTTPStatusCode}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
