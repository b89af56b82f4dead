package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/auth"
	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient implements Remote over the mirror's gRPC service.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      mirror.MirrorClient

	deviceID      string
	secret        []byte
	tokenValidity time.Duration
	now           func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// token returns the cached access token, minting a new one when it is
// missing, expiring within a second, or force is set.
func (s *GRPCClient) token(force bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !force && s.accessToken != "" && now.Add(time.Second).Before(s.expiresAt) {
		return s.accessToken, nil
	}

	tok, err := auth.GenerateToken(s.deviceID, s.secret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	s.accessToken = tok
	s.expiresAt = now.Add(s.tokenValidity)
	return tok, nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == mirror.MethodPing {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	tok, err := s.token(false)
	if err != nil {
		return err
	}

	err = invoker(withAccessToken(ctx, tok), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	// server clock ran ahead of ours, mint a fresh token and retry once
	tok, terr := s.token(true)
	if terr != nil {
		return terr
	}
	return invoker(withAccessToken(ctx, tok), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL and authenticates as deviceID.
func NewGRPCClient(endpointURL, deviceID string, secret []byte, tokenValidity time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL:   endpointURL,
		deviceID:      deviceID,
		secret:        secret,
		tokenValidity: tokenValidity,
		now:           time.Now,
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = mirror.NewMirrorClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) send(ctx context.Context, fn func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error), v any) error {
	req, err := mirror.Encode(v)
	if err != nil {
		return err
	}

	resp, err := fn(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	var ack mirror.Ack
	if err := mirror.Decode(resp, &ack); err != nil {
		return err
	}
	if ack.Status != mirror.StatusOK {
		return fmt.Errorf("%w: status %q", common.ErrUnavailable, ack.Status)
	}
	return nil
}

func (s *GRPCClient) SaveEntry(ctx context.Context, entry *models.DiaryEntry) error {
	return s.send(ctx, s.client.SaveEntry, ToWire(entry))
}

func (s *GRPCClient) UpdateEntry(ctx context.Context, entry *models.DiaryEntry) error {
	return s.send(ctx, s.client.UpdateEntry, ToWire(entry))
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id string) error {
	return s.send(ctx, s.client.DeleteEntry, mirror.Tombstone{ID: id, DeletedAt: s.now().UTC()})
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	return s.send(ctx, s.client.Ping, struct{}{})
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidEntry, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
