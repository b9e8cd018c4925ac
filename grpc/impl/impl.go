package impl

import (
	pb "github.com/cardapio-project/cardapio/grpc"
	"github.com/cardapio-project/cardapio/grpc/impl/background"
	"github.com/cardapio-project/cardapio/grpc/impl/font"
	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/grpc/impl/render"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/grpc/impl/style"
)

// Encoded uploads larger than this are rejected by the REST handlers. The
// gRPC server applies the same limit through grpc.MaxRecvMsgSize.
const MaxUploadBytes = 20 << 20

type server struct {
	pb.UnimplementedMenuServiceServer

	// One OCR backend behind the confidence threshold of each mode.
	analysisDetector ocr.Detector
	templateDetector ocr.Detector

	// Wraps the style backend with a timeout and the default styles.
	styles *style.Adapter

	// Fills the masked text boxes when building a template.
	filler inpaint.Filler

	// Used for resolving font files and drawing texts on images.
	fontProvider font.FontProvider
	renderer     *render.Renderer

	// Produces the background of a re-rendered menu. Nil when no generator is configured.
	background background.Generator

	// Every artifact of a job is written here.
	store storage.JobStore

	// Reported by GetVersion and /verversao.
	version string
}

func New(
	detector ocr.Detector,
	styles *style.Adapter,
	filler inpaint.Filler,
	fontProvider font.FontProvider,
	background background.Generator,
	store storage.JobStore,
	version string,
) *server {
	return &server{
		analysisDetector: ocr.WithThreshold(detector, menu.AnalysisConfidenceThreshold),
		templateDetector: ocr.WithThreshold(detector, menu.TemplateConfidenceThreshold),
		styles:           styles,
		filler:           filler,
		fontProvider:     fontProvider,
		renderer:         render.New(fontProvider),
		background:       background,
		store:            store,
		version:          version,
	}
}
