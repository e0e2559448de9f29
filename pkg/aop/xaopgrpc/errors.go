package xaopgrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/omeyang/xaop/pkg/aop/xadvice"
)

// ErrNoAdvice 表示 New 没有收到任何 Advice。
var ErrNoAdvice = errors.New("xaopgrpc: no advice")

// ErrorMapper 把链返回的错误转换为发给对端的错误。
type ErrorMapper func(err error) error

// DefaultErrorMapper 为 xadvice 的熔断、并发限制错误和 context 错误补上 gRPC 状态码，
// 已带状态码的错误和其它错误原样返回。
func DefaultErrorMapper(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, xadvice.ErrCircuitOpen):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, xadvice.ErrConcurrencyLimitReached):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return err
}
