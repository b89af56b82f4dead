package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) SaveEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.store(ctx, "save", req)
}

// UpdateEntry shares the save path: the mirror keeps whichever write is newest.
func (s *GRPCServer) UpdateEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.store(ctx, "update", req)
}

func (s *GRPCServer) store(ctx context.Context, op string, req *structpb.Struct) (*structpb.Struct, error) {
	entry, err := mirror.DecodeEntry(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	device := deviceFromContext(ctx)
	if err := s.entries.Store(ctx, device, entry); err != nil {
		return nil, s.mapError(ctx, op, entry.ID, err)
	}

	s.logger.Debug(ctx, "entry stored", "op", op, "device", device, "id", entry.ID)
	return mirror.OK(), nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	t, err := mirror.DecodeTombstone(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	device := deviceFromContext(ctx)
	if err := s.entries.Delete(ctx, device, t); err != nil {
		return nil, s.mapError(ctx, "delete", t.ID, err)
	}

	s.logger.Debug(ctx, "entry deleted", "device", device, "id", t.ID)
	return mirror.OK(), nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	return mirror.OK(), nil

}

func (s *GRPCServer) mapError(ctx context.Context, op, id string, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidDate), errors.Is(err, common.ErrInvalidEntry):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "mirror write failed", "op", op, "id", id, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
