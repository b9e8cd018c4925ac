package impl

import (
	"context"

	"github.com/rs/zerolog/log"

	pb "github.com/cardapio-project/cardapio/grpc"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/pkg/common"
)

func (s *server) GetResult(ctx context.Context, req *pb.GetResultRequest) (*pb.GetResultResponse, error) {
	image, err := s.store.Get(ctx, req.GetJobId(), storage.KindResult)
	if err != nil {
		log.Error().Err(err).Str("job_id", req.GetJobId()).Msg("Failed to get rendered menu")
		return nil, common.GRPCError(err)
	}
	return &pb.GetResultResponse{Image: image}, nil
}

func (s *server) GetVersion(ctx context.Context, req *pb.GetVersionRequest) (*pb.GetVersionResponse, error) {
	return &pb.GetVersionResponse{Version: s.version}, nil
}

func resultURL(jobID string) string {
	return "/download/result/" + jobID
}

func templateURL(jobID string) string {
	return "/download/template/" + jobID
}
