// Package grpc hosts the gRPC surface of the service: the standard health service and its interceptors.
package grpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/turtacn/pslrisk/pkg/errors"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// InterceptorChain 拦截器链
type InterceptorChain struct {
	log logger.Logger
}

// NewInterceptorChain 创建拦截器链
func NewInterceptorChain(log logger.Logger) *InterceptorChain {
	return &InterceptorChain{log: log}
}

// UnaryRecoveryInterceptor 恢复拦截器(捕获 panic)
func (ic *InterceptorChain) UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				ic.log.Error(ctx, "gRPC handler panic recovered", fmt.Errorf("%v", r),
					logger.String("method", info.FullMethod),
				)
				err = status.Errorf(grpcCodes.Internal, "internal server error: %v", r)
			}
		}()

		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor 日志拦截器
func (ic *InterceptorChain) UnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()

		var userAgent string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if agents := md.Get("user-agent"); len(agents) > 0 {
				userAgent = agents[0]
			}
		}

		resp, err := handler(ctx, req)

		statusCode := grpcCodes.OK
		if err != nil {
			if st, ok := status.FromError(err); ok {
				statusCode = st.Code()
			}
		}

		ic.log.Debug(ctx, "gRPC request completed",
			logger.String("method", info.FullMethod),
			logger.String("user_agent", userAgent),
			logger.Int64("duration_ms", time.Since(startTime).Milliseconds()),
			logger.String("status", statusCode.String()),
		)

		return resp, err
	}
}

// UnaryErrorInterceptor 错误转换拦截器(将领域错误转换为 gRPC 状态码)
func (ic *InterceptorChain) UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return resp, convertDomainErrorToGRPC(err)
	}
}

// convertDomainErrorToGRPC 将领域错误转换为 gRPC 错误
func convertDomainErrorToGRPC(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	svcErr, ok := errors.AsServiceError(err)
	if !ok {
		return status.Errorf(grpcCodes.Internal, "internal server error: %v", err)
	}

	switch svcErr.HTTPStatus() {
	case http.StatusNotFound:
		return status.Errorf(grpcCodes.NotFound, "%s", svcErr.Error())
	case http.StatusBadRequest:
		return status.Errorf(grpcCodes.InvalidArgument, "%s", svcErr.Error())
	case http.StatusServiceUnavailable:
		return status.Errorf(grpcCodes.Unavailable, "%s", svcErr.Error())
	default:
		return status.Errorf(grpcCodes.Internal, "internal server error: %v", err)
	}
}

// ChainUnaryInterceptors 链式调用所有拦截器
func (ic *InterceptorChain) ChainUnaryInterceptors() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		ic.UnaryRecoveryInterceptor(), // 1. 恢复 panic
		ic.UnaryLoggingInterceptor(),  // 2. 日志
		ic.UnaryErrorInterceptor(),    // 3. 错误转换
	)
}
