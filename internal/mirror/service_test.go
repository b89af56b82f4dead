package mirror

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type recordingServer struct {
	mu    sync.Mutex
	calls []string
}

func (s *recordingServer) record(name string) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	return OK(), nil
}

func (s *recordingServer) SaveEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record("save:" + req.GetFields()["id"].GetStringValue())
}
func (s *recordingServer) UpdateEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record("update:" + req.GetFields()["id"].GetStringValue())
}
func (s *recordingServer) DeleteEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record("delete:" + req.GetFields()["id"].GetStringValue())
}
func (s *recordingServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.record("ping")
}

func TestServiceDesc_RoundTripOverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	var seen []string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	rs := &recordingServer{}
	RegisterMirrorServer(srv, rs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := NewMirrorClient(conn)
	ctx := context.Background()

	in, err := Encode(Entry{ID: "e1"})
	require.NoError(t, err)
	tomb, err := Encode(Tombstone{ID: "e1"})
	require.NoError(t, err)

	out, err := c.SaveEntry(ctx, in)
	require.NoError(t, err)
	require.Equal(t, StatusOK, out.GetFields()["status"].GetStringValue())
	_, err = c.UpdateEntry(ctx, in)
	require.NoError(t, err)
	_, err = c.DeleteEntry(ctx, tomb)
	require.NoError(t, err)
	_, err = c.Ping(ctx, &structpb.Struct{})
	require.NoError(t, err)

	require.Equal(t, []string{"save:e1", "update:e1", "delete:e1", "ping"}, rs.calls)
	require.Equal(t, []string{MethodSaveEntry, MethodUpdateEntry, MethodDeleteEntry, MethodPing}, seen)
}
