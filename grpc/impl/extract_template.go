package impl

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	pb "github.com/cardapio-project/cardapio/grpc"
	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/utils"
)

func (s *server) ExtractTemplate(ctx context.Context, req *pb.ExtractTemplateRequest) (*pb.ExtractTemplateResponse, error) {
	jobID, err := jobIDOrNew(req.GetJobId())
	if err != nil {
		log.Error().Err(err).Msg("Failed to accept template job id")
		return nil, common.GRPCError(err)
	}

	img, err := decodeImage(req.GetImage(), "image")
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to decode menu image")
		return nil, common.GRPCError(err)
	}

	extracted, err := s.extractTemplate(ctx, jobID, img)
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to extract template")
		return nil, common.GRPCError(err)
	}

	textAreas := utils.Map(extracted.metadata.TextAreas, func(area menu.TextArea) *pb.TextArea {
		return &pb.TextArea{
			Id:           area.ID,
			OriginalText: area.OriginalText,
			Box: &pb.Box{
				X:      int32(area.Box[0]),
				Y:      int32(area.Box[1]),
				Width:  int32(area.Box[2]),
				Height: int32(area.Box[3]),
			},
			ApproxFontSize: int32(area.ApproxFontSize),
			ApproxColorRgb: utils.Map(area.ApproxColorRGB[:], func(channel int) int32 {
				return int32(channel)
			}),
		}
	})

	return &pb.ExtractTemplateResponse{
		JobId:         jobID,
		TemplateImage: extracted.image,
		TextAreas:     textAreas,
	}, nil
}

// jobIDOrNew accepts a caller supplied job id only when it is a UUID.
func jobIDOrNew(jobID string) (string, error) {
	if jobID == "" {
		return uuid.NewString(), nil
	}
	parsed, err := uuid.Parse(jobID)
	if err != nil {
		return "", common.InputError("job_id must be a UUID", err)
	}
	return parsed.String(), nil
}

// template is the outcome of the template pipeline.
type template struct {
	image    []byte
	metadata menu.TemplateMetadata
}

// extractTemplate removes every confidently detected text block from img and
// stores the blank template next to a sidecar describing what was removed.
func (s *server) extractTemplate(ctx context.Context, jobID string, img image.Image) (template, error) {
	detections, err := ocr.Detect(ctx, s.templateDetector, img).Unwrap()
	if err != nil {
		return template{}, err
	}

	blocks := menu.Sampled(detections, img)
	boxes := utils.Map(blocks, func(block menu.TextBlock) menu.Box {
		return block.Box
	})

	blank, err := inpaint.RemoveText(ctx, s.filler, img, boxes)
	if err != nil {
		return template{}, fmt.Errorf("failed to remove text: %w", err)
	}

	encoded, err := encodePNG(blank)
	if err != nil {
		return template{}, err
	}
	metadata := menu.NewTemplateMetadata(blocks)
	document, err := metadata.Marshal()
	if err != nil {
		return template{}, fmt.Errorf("failed to marshal template metadata: %w", err)
	}

	if err := s.store.Put(ctx, jobID, storage.KindTemplate, encoded); err != nil {
		return template{}, fmt.Errorf("failed to store template: %w", err)
	}
	if err := s.store.Put(ctx, jobID, storage.KindTemplateMetadata, document); err != nil {
		return template{}, fmt.Errorf("failed to store template metadata: %w", err)
	}

	log.Info().Str("job_id", jobID).Int("text_areas", len(blocks)).Msg("Extracted template")

	return template{image: encoded, metadata: metadata}, nil
}
