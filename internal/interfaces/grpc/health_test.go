package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	svcerrors "github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

func TestHealthServer_Refresh(t *testing.T) {
	healthy := true
	probe := func(context.Context) map[string]string {
		if healthy {
			return map[string]string{"database": "ok"}
		}
		return map[string]string{"database": "error: connection refused"}
	}
	s := NewHealthServer(probe, time.Minute, logger.NewNoopLogger())
	ctx := context.Background()

	resp, err := s.Health().Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	assert.True(t, s.Refresh(ctx))
	resp, err = s.Health().Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	healthy = false
	assert.False(t, s.Refresh(ctx))
	resp, err = s.Health().Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestHealthServer_ServeOverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := NewHealthServer(nil, time.Minute, logger.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Serve(ctx, lis) }()
	defer s.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, 5*time.Second, 20*time.Millisecond)

	_, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})
	assert.Equal(t, grpcCodes.NotFound, status.Code(err))
}

func TestConvertDomainErrorToGRPC(t *testing.T) {
	tests := []struct {
		err  error
		want grpcCodes.Code
	}{
		{svcerrors.ErrAlertNotFound("t1", "a1"), grpcCodes.NotFound},
		{svcerrors.ErrMissingRequiredParameter("tenantId"), grpcCodes.InvalidArgument},
		{svcerrors.ErrCacheUnavailable("down"), grpcCodes.Unavailable},
		{svcerrors.ErrRepository("append"), grpcCodes.Internal},
		{errors.New("boom"), grpcCodes.Internal},
		{status.Error(grpcCodes.PermissionDenied, "no"), grpcCodes.PermissionDenied},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(convertDomainErrorToGRPC(tt.err)), tt.err.Error())
	}
}

func TestUnaryRecoveryInterceptor(t *testing.T) {
	chain := NewInterceptorChain(logger.NewNoopLogger())
	_, err := chain.UnaryRecoveryInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x"},
		func(context.Context, interface{}) (interface{}, error) { panic("kaboom") })
	assert.Equal(t, grpcCodes.Internal, status.Code(err))
}
