package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
)

// Client speaks the OpenAI request shapes on top of Gemini, so callers can
// switch providers without changing how they build requests.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	// GenerateImage sends prompt and an optional reference image, and returns
	// the first image part of the answer with its MIME type.
	GenerateImage(ctx context.Context, model string, prompt string, reference []byte, referenceMIMEType string) ([]byte, string, error)
}

var ErrNoImage = errors.New("model answered without an image")

type client struct {
	genaiClient *genai.Client
}

func New(genaiClient *genai.Client) Client {
	return &client{genaiClient: genaiClient}
}

type GenaiModel string

const (
	GenaiModelFlash GenaiModel = "gemini-1.5-flash"
	GenaiModelPro   GenaiModel = "gemini-1.5-pro"
)

func (c *client) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := validateModel(request.Model); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	if len(request.Messages) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("no messages")
	}

	genaiModel := c.genaiClient.GenerativeModel(request.Model)
	if request.ResponseFormat != nil && request.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject {
		genaiModel.ResponseMIMEType = "application/json"
	}

	chatSession := genaiModel.StartChat()
	chatSession.History = []*genai.Content{}
	for _, message := range request.Messages[:len(request.Messages)-1] {
		if message.Role == openai.ChatMessageRoleSystem {
			genaiModel.SystemInstruction = genai.NewUserContent(genai.Text(message.Content))
			continue
		}
		content, err := toGenaiContent(message)
		if err != nil {
			return openai.ChatCompletionResponse{}, err
		}
		chatSession.History = append(chatSession.History, content)
	}

	requestMessage := request.Messages[len(request.Messages)-1]
	parts, err := toGenaiParts(requestMessage)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	resp, err := chatSession.SendMessage(ctx, parts...)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("no response from model")
	}

	return openai.ChatCompletionResponse{
		Model: request.Model,
		Choices: []openai.ChatCompletionChoice{
			{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: textOf(resp.Candidates[0].Content.Parts),
				},
			},
		},
	}, nil
}

func (c *client) GenerateImage(ctx context.Context, model string, prompt string, reference []byte, referenceMIMEType string) ([]byte, string, error) {
	if err := validateModel(model); err != nil {
		return nil, "", err
	}

	parts := []genai.Part{genai.Text(prompt)}
	if len(reference) > 0 {
		parts = append(parts, genai.Blob{MIMEType: referenceMIMEType, Data: reference})
	}

	resp, err := c.genaiClient.GenerativeModel(model).GenerateContent(ctx, parts...)
	if err != nil {
		return nil, "", err
	}
	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && strings.HasPrefix(blob.MIMEType, "image/") {
				return blob.Data, blob.MIMEType, nil
			}
		}
	}
	return nil, "", ErrNoImage
}

func textOf(parts []genai.Part) string {
	var text strings.Builder
	for _, part := range parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

func toGenaiContent(message openai.ChatCompletionMessage) (*genai.Content, error) {
	parts, err := toGenaiParts(message)
	if err != nil {
		return &genai.Content{}, err
	}

	return &genai.Content{
		Parts: parts,
		Role:  toGenaiRole(message.Role),
	}, nil
}

func toGenaiParts(message openai.ChatCompletionMessage) ([]genai.Part, error) {
	var parts []genai.Part
	if message.MultiContent != nil {
		for _, content := range message.MultiContent {
			if content.Type == openai.ChatMessagePartTypeImageURL {
				if content.ImageURL == nil {
					return nil, errors.New("image part without a URL")
				}
				decodedImage, mimeType, err := decodeImageURL(content.ImageURL.URL)
				if err != nil {
					return nil, err
				}
				parts = append(parts, genai.Blob{
					MIMEType: mimeType,
					Data:     decodedImage,
				})
			} else {
				parts = append(parts, genai.Text(content.Text))
			}
		}
	} else if message.Content != "" {
		parts = append(parts, genai.Text(message.Content))
	}
	return parts, nil
}

func toGenaiRole(role string) string {
	switch role {
	case openai.ChatMessageRoleAssistant:
		return "model"
	default:
		return "user"
	}
}

func decodeImageURL(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", errors.New("invalid data URI format")
	}

	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return nil, "", errors.New("invalid data URI format")
	}

	mimeType := strings.TrimSuffix(strings.TrimPrefix(parts[0], "data:"), ";base64")

	decodedData, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", err
	}

	return decodedData, mimeType, nil
}

func validateModel(model string) error {
	switch model {
	case string(GenaiModelFlash), string(GenaiModelPro):
		return nil
	default:
		return fmt.Errorf("invalid model %q", model)
	}
}
