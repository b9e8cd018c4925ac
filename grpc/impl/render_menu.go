package impl

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	pb "github.com/cardapio-project/cardapio/grpc"
	"github.com/cardapio-project/cardapio/grpc/impl/background"
	"github.com/cardapio-project/cardapio/grpc/impl/sheet"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/pkg/common"
)

func (s *server) RenderMenu(ctx context.Context, req *pb.RenderMenuRequest) (*pb.RenderMenuResponse, error) {
	if len(req.GetSpreadsheet()) == 0 {
		err := common.InputErrorf("spreadsheet is required")
		log.Error().Err(err).Msg("Failed to accept render request")
		return nil, common.GRPCError(err)
	}
	reference, err := decodeImage(req.GetReferenceImage(), "reference image")
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode reference image")
		return nil, common.GRPCError(err)
	}

	jobID := uuid.NewString()
	if err := s.renderMenu(ctx, jobID, req.GetSpreadsheet(), reference); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to render menu")
		return nil, common.GRPCError(err)
	}

	return &pb.RenderMenuResponse{JobId: jobID, ResultUrl: resultURL(jobID)}, nil
}

// renderMenu draws the rows of a spreadsheet onto a background generated in
// the style of the reference image. The spreadsheet is validated before the
// generator is called.
func (s *server) renderMenu(ctx context.Context, jobID string, spreadsheet []byte, reference image.Image) error {
	placements, err := sheet.Placements(spreadsheet)
	if err != nil {
		return err
	}

	if s.background == nil {
		return common.EngineUnavailable("no background generator configured", nil)
	}
	generated := background.Generate(ctx, s.background, reference)
	if generated.IsFatal() {
		return generated.Reason()
	}

	rendered := s.renderer.Render(generated.Value(), placements)
	encoded, err := encodePNG(rendered)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, jobID, storage.KindResult, encoded); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	log.Info().Str("job_id", jobID).Int("placements", len(placements)).Msg("Rendered menu")
	return nil
}
