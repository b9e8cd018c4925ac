package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	pb "github.com/cardapio-project/cardapio/grpc"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/result"
)

func (s *server) AnalyzeMenu(ctx context.Context, req *pb.AnalyzeMenuRequest) (*pb.AnalyzeMenuResponse, error) {
	img, err := decodeImage(req.GetImage(), "image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode menu image")
		return nil, common.GRPCError(err)
	}

	jobID := uuid.NewString()
	analyzed, err := s.analyze(ctx, jobID, img)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to analyze menu")
		return nil, common.GRPCError(err)
	}

	textBlocks := make([]*pb.TextBlock, len(analyzed.blocks))
	for i, block := range analyzed.blocks {
		record := analyzed.records[i]
		textBlocks[i] = &pb.TextBlock{
			Id:                 block.ID,
			Text:               block.Text,
			Box:                toPbBox(block.Box),
			Confidence:         int32(block.Confidence),
			FontSize:           int32(record.FontSize),
			FontNameSuggestion: record.FontNameSuggestion,
			ColorRgb:           toPbColor(block.Color),
			FontFile:           record.FontFile,
		}
	}

	return &pb.AnalyzeMenuResponse{JobId: jobID, TextBlocks: textBlocks}, nil
}

// analysis is the outcome of the analysis pipeline.
type analysis struct {
	blocks  []menu.TextBlock
	records []menu.AnalysisRecord
}

// analyze detects the text of img and suggests a font and color for every
// block. OCR and style inference run concurrently; a failing style backend
// only downgrades the suggestions to the default styles.
func (s *server) analyze(ctx context.Context, jobID string, img image.Image) (analysis, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	detectChan := make(chan result.Result[[]menu.Detection], 1)
	styleChan := make(chan result.Result[menu.StyleMap], 1)

	go func() {
		detectChan <- ocr.Detect(ctx, s.analysisDetector, img)
	}()
	go func() {
		styleChan <- s.styles.InferStyles(ctx, img)
	}()

	// A Fatal OCR result ends the job. Style inference is at worst Degraded.
	detected := <-detectChan
	if detected.Kind() == result.KindFatal {
		return analysis{}, detected.Reason()
	}
	styles := <-styleChan

	blocks := menu.Fuse(detected.Value(), styles.Value(), img.Bounds().Dy())
	records := menu.AnalysisRecords(blocks, s.fontProvider.Resolve)

	log.Info().
		Str("job_id", jobID).
		Int("blocks", len(blocks)).
		Stringer("styles", styles.Kind()).
		Msg("Analyzed menu")

	source, err := encodePNG(img)
	if err != nil {
		return analysis{}, err
	}
	if err := s.store.Put(ctx, jobID, storage.KindUpload, source); err != nil {
		return analysis{}, fmt.Errorf("failed to store upload: %w", err)
	}
	document, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return analysis{}, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if err := s.store.Put(ctx, jobID, storage.KindAnalysis, document); err != nil {
		return analysis{}, fmt.Errorf("failed to store analysis: %w", err)
	}

	return analysis{blocks: blocks, records: records}, nil
}

func toPbBox(box menu.Box) *pb.Box {
	return &pb.Box{
		X:      int32(box.X),
		Y:      int32(box.Y),
		Width:  int32(box.Width),
		Height: int32(box.Height),
	}
}

func toPbColor(color menu.RGB) []int32 {
	return []int32{int32(color.R), int32(color.G), int32(color.B)}
}
