package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/auth"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", logging.Nop(), &fakeWriter{}, secret)
}

func incoming(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestInterceptor_PingAllowsWithoutToken(t *testing.T) {
	s := newTestServer(testSecret)
	called := false
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: mirror.MethodPing}, h)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_Rejections(t *testing.T) {
	s := newTestServer(testSecret)
	info := &grpc.UnaryServerInfo{FullMethod: mirror.MethodSaveEntry}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}

	expired, err := auth.GenerateToken("laptop", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("laptop", []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		ctx     context.Context
		message string
	}{
		{"missing metadata", context.Background(), "missing token"},
		{"empty token", incoming(""), "missing token"},
		{"expired", incoming(expired), common.ErrTokenExpired.Error()},
		{"wrong secret", incoming(foreign), common.ErrInvalidToken.Error()},
		{"garbage", incoming("not-a-jwt"), common.ErrInvalidToken.Error()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tc.ctx, nil, info, h)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tc.message, st.Message())
		})
	}
}

func TestInterceptor_PutsDeviceInContext(t *testing.T) {
	s := newTestServer(testSecret)
	tok, err := auth.GenerateToken("phone", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	var device string
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		device = deviceFromContext(ctx)
		return nil, nil
	}
	_, err = s.accessTokenInterceptor(incoming(tok), nil, &grpc.UnaryServerInfo{FullMethod: mirror.MethodDeleteEntry}, h)
	require.NoError(t, err)
	assert.Equal(t, "phone", device)
}
