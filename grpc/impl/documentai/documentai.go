package documentai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
)

// Client is an interface for the DocumentProcessorClient.
// Ref: https://pkg.go.dev/cloud.google.com/go/documentai
// This interface is used for mocking the documentai.DocumentProcessorClient in tests.
type Client interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
}

// Spec identifies the OCR processor requests are sent to.
type Spec struct {
	// E.g., cardapio-prod
	ProjectID string
	// E.g., us
	Location string
	// E.g., 98dae69a95e1906
	ProcessorID string
}

func (s Spec) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", s.ProjectID, s.Location, s.ProcessorID)
}
