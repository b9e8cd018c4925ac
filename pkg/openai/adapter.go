package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Client is the part of the OpenAI API the style and background backends call.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

type adapter struct {
	client *openai.Client
}

func NewAdapter(client *openai.Client) Client {
	return &adapter{client: client}
}

func (a *adapter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return a.client.CreateChatCompletion(ctx, request)
}

func (a *adapter) CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error) {
	return a.client.CreateImage(ctx, request)
}

var ErrEmptyCompletion = errors.New("completion has no content")

// GetCompletionContent returns the text of the first choice. A refusal, a
// filtered or truncated answer and a blank answer are errors, since callers
// parse the content as JSON or use it as a prompt.
func GetCompletionContent(response openai.ChatCompletionResponse) (string, error) {
	if len(response.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	choice := response.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", choice.Message.Refusal)
	}
	switch choice.FinishReason {
	case openai.FinishReasonContentFilter:
		return "", errors.New("completion was filtered")
	case openai.FinishReasonLength:
		return "", errors.New("completion was cut at the token limit")
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return choice.Message.Content, nil
}
