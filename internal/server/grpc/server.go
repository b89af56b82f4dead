// Package grpc exposes the mirror service over gRPC: JWT device
// authentication, request metrics and the MirrorService handlers.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"google.golang.org/grpc"
)

// EntryWriter is the mirror write path the handlers drive.
type EntryWriter interface {
	Store(ctx context.Context, deviceID string, e *mirror.Entry) error
	Delete(ctx context.Context, deviceID string, t *mirror.Tombstone) error
}

type GRPCServer struct {
	address   string
	entries   EntryWriter
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, w EntryWriter, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		entries:   w,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx ends.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx ends, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))

	// registers service
	mirror.RegisterMirrorServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
