package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/logging"
	"github.com/dmitrijs2005/diarykeeper/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func deviceCtx(device string) context.Context {
	return context.WithValue(context.Background(), deviceIDKey, device)
}

func TestHandlers_MissingIDIsInvalidArgument(t *testing.T) {
	s := newTestServer(testSecret)
	empty := &structpb.Struct{}

	_, err := s.SaveEntry(deviceCtx("d"), empty)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = s.UpdateEntry(deviceCtx("d"), empty)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = s.DeleteEntry(deviceCtx("d"), empty)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHandlers_MapWriterErrors(t *testing.T) {
	req, err := mirror.Encode(mirror.Entry{ID: "e1", Day: "2026-10-14", UpdatedAt: time.Now()})
	require.NoError(t, err)

	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: day", common.ErrInvalidDate), codes.InvalidArgument},
		{fmt.Errorf("%w: counters", common.ErrInvalidEntry), codes.InvalidArgument},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("db down"), codes.Internal},
	}
	for _, tc := range tests {
		s := NewGRPCServer("", logging.Nop(), &fakeWriter{err: tc.err}, testSecret)
		_, err := s.SaveEntry(deviceCtx("d"), req)
		assert.Equal(t, tc.code, status.Code(err), "for %v", tc.err)
	}
}

func TestDeleteEntry_PassesDevice(t *testing.T) {
	w := &fakeWriter{}
	s := NewGRPCServer("", logging.Nop(), w, testSecret)
	req, err := mirror.Encode(mirror.Tombstone{ID: "e9"})
	require.NoError(t, err)

	ack, err := s.DeleteEntry(deviceCtx("tablet"), req)
	require.NoError(t, err)
	assert.Equal(t, mirror.StatusOK, ack.GetFields()["status"].GetStringValue())
	assert.Equal(t, []string{"tablet/e9"}, w.deletes)
}

func TestPing(t *testing.T) {
	ack, err := newTestServer(testSecret).Ping(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, mirror.StatusOK, ack.GetFields()["status"].GetStringValue())
}
