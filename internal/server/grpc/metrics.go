package grpc

import (
	"context"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diarykeeper",
		Subsystem: "mirror",
		Name:      "requests_total",
		Help:      "Mirror RPCs by method and status code.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "diarykeeper",
		Subsystem: "mirror",
		Name:      "request_duration_seconds",
		Help:      "Mirror RPC latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// metricsInterceptor runs outermost so rejected calls are counted too.
func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	method := path.Base(info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(method, status.Code(err).String()).Inc()
	return resp, err
}
