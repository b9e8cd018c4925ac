package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gcs "cloud.google.com/go/storage"
	vision "cloud.google.com/go/vision/apiv1"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"github.com/ridge/must/v2"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/cardapio-project/cardapio/grpc/impl/background"
	yaGenai "github.com/cardapio-project/cardapio/grpc/impl/genai"
	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
	"github.com/cardapio-project/cardapio/grpc/impl/lama"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/grpc/impl/style"
	"github.com/cardapio-project/cardapio/grpc/impl/tesseract"
	implVision "github.com/cardapio-project/cardapio/grpc/impl/vision"
	yaOpenai "github.com/cardapio-project/cardapio/pkg/openai"
)

// wiring builds the adapters selected by Config. Hosted clients are created
// on first use and closed by Close.
type wiring struct {
	ctx    context.Context
	config Config

	secretmanagerClient *secretmanager.Client
	openaiClient        yaOpenai.Client
	genaiClient         yaGenai.Client

	closers []func() error
}

func newWiring(ctx context.Context, config Config) *wiring {
	return &wiring{ctx: ctx, config: config}
}

func (w *wiring) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Failed to close client")
		}
	}
}

func (w *wiring) jobStore() storage.JobStore {
	switch w.config.Storage.Backend {
	case "gcs":
		client := must.OK1(gcs.NewClient(w.ctx))
		w.closers = append(w.closers, client.Close)
		return storage.NewGCS(client, w.config.Storage.Bucket, w.config.Storage.Prefix)
	case "memory":
		return storage.NewMemory()
	case "filesystem":
		return storage.NewFilesystem(w.config.Storage.Dir)
	default:
		panic(fmt.Sprintf("unknown STORAGE_BACKEND %q", w.config.Storage.Backend))
	}
}

func (w *wiring) detector() ocr.Detector {
	switch w.config.OCR.Backend {
	case "vision":
		var opts []option.ClientOption
		if w.config.OCR.Engine.Credentials != "" {
			opts = append(opts, option.WithCredentialsFile(w.config.OCR.Engine.Credentials))
		}
		client := must.OK1(vision.NewImageAnnotatorClient(w.ctx, opts...))
		w.closers = append(w.closers, client.Close)
		return implVision.New(client, w.config.OCR.Engine)
	case "tesseract":
		return tesseract.New(w.config.OCR.Engine)
	default:
		panic(fmt.Sprintf("unknown OCR_BACKEND %q", w.config.OCR.Backend))
	}
}

// styleInferrer returns nil for "none"; the adapter then always uses the default styles.
func (w *wiring) styleInferrer() style.Inferrer {
	config := w.config.Style
	switch config.Backend {
	case "none":
		return nil
	case "openai":
		model := config.Model
		if model == "" {
			model = openai.GPT4o
		}
		return style.NewChat(w.openai(), model)
	case "gemini":
		model := config.Model
		if model == "" {
			model = string(yaGenai.GenaiModelFlash)
		}
		return style.NewChat(w.genai(), model)
	case "documentai":
		client := must.OK1(documentai.NewDocumentProcessorClient(w.ctx, option.WithEndpoint(config.DocumentAIEndpoint)))
		w.closers = append(w.closers, client.Close)
		return style.NewDocumentAI(client, config.DocumentAI)
	default:
		panic(fmt.Sprintf("unknown STYLE_BACKEND %q", config.Backend))
	}
}

func (w *wiring) filler() inpaint.Filler {
	switch w.config.Inpaint.Backend {
	case "lama":
		if w.config.Inpaint.LamaURL == "" {
			panic("LAMA_URL is required when INPAINT_BACKEND is lama")
		}
		httpClient := &http.Client{Timeout: 2 * time.Minute}
		return lama.New(httpClient, w.config.Inpaint.LamaURL, w.config.Inpaint.LamaAPIKey)
	case "opencv":
		return must.OK1(openCVFiller())
	case "telea":
		return inpaint.NewTelea(inpaint.Radius)
	default:
		panic(fmt.Sprintf("unknown INPAINT_BACKEND %q", w.config.Inpaint.Backend))
	}
}

// backgroundGenerator returns nil for "none"; render requests then fail as EngineUnavailable.
func (w *wiring) backgroundGenerator() background.Generator {
	switch w.config.Background.Backend {
	case "none":
		return nil
	case "gemini":
		return background.NewGemini(w.genai(), w.config.Background.Model)
	case "openai":
		return background.NewOpenAI(w.openai())
	default:
		panic(fmt.Sprintf("unknown BACKGROUND_BACKEND %q", w.config.Background.Backend))
	}
}

func (w *wiring) openai() yaOpenai.Client {
	if w.openaiClient == nil {
		key := w.apiKey(w.config.OpenAIKey, w.config.OpenAIKeySecretName, "OPENAI_KEY_SECRET_NAME")
		w.openaiClient = yaOpenai.NewAdapter(openai.NewClient(key))
	}
	return w.openaiClient
}

func (w *wiring) genai() yaGenai.Client {
	if w.genaiClient == nil {
		key := w.apiKey(w.config.GeminiKey, w.config.GeminiKeySecretName, "GEMINI_API_KEY_SECRET_NAME")
		client := must.OK1(genai.NewClient(w.ctx, option.WithAPIKey(key)))
		w.closers = append(w.closers, client.Close)
		w.genaiClient = yaGenai.New(client)
	}
	return w.genaiClient
}

// apiKey prefers a key given directly (local development) over GCP Secret Manager.
func (w *wiring) apiKey(key string, secretName string, secretVariable string) string {
	if key != "" {
		return key
	}
	if secretName == "" || w.config.GCPProjectID == "" {
		panic(fmt.Sprintf("either the API key or %s with GCP_PROJECT_ID must be set", secretVariable))
	}
	return w.secretFromGCP(secretName)
}

func (w *wiring) secretFromGCP(secretName string) string {
	if w.secretmanagerClient == nil {
		w.secretmanagerClient = must.OK1(secretmanager.NewClient(w.ctx))
		w.closers = append(w.closers, w.secretmanagerClient.Close)
	}

	// Secret Manager is occasionally slow right after a cold start.
	retry := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second/2), 4), w.ctx)
	secretValue := must.OK1(backoff.RetryWithData(func() (*secretmanagerpb.AccessSecretVersionResponse, error) {
		return w.secretmanagerClient.AccessSecretVersion(w.ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", w.config.GCPProjectID, secretName),
		})
	}, retry))
	return string(secretValue.Payload.Data)
}
