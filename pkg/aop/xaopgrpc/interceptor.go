package xaopgrpc

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xpointcut"
	"github.com/omeyang/xaop/pkg/aop/xproxy"
)

// AttrFullMethod 是拦截器写入的调用属性名，值为 gRPC 完整方法名。
const AttrFullMethod = "xaopgrpc.full_method"

var (
	serverCallType = reflect.TypeFor[func(ctx context.Context, req any) (any, error)]()
	clientCallType = reflect.TypeFor[func(ctx context.Context, req, reply any) error]()
	clientConnType = reflect.TypeFor[*grpc.ClientConn]()
)

// Interceptor 持有一组 Advisor，并为每个 gRPC 方法缓存拦截器链。并发安全。
type Interceptor struct {
	advisors []xaop.Advisor
	opts     options
	matches  *xpointcut.MatchCache
	chains   sync.Map // chainKey -> xproxy.Chain
}

type chainKey struct {
	owner      reflect.Type
	fullMethod string
}

// New 创建 Interceptor。advice 按给定顺序组成链，第一个在最外层。
func New(advice []xaop.Advice, opts ...Option) (*Interceptor, error) {
	if len(advice) == 0 {
		return nil, ErrNoAdvice
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	advisors := make([]xaop.Advisor, 0, len(advice))
	for _, a := range advice {
		adv, err := o.registry.Wrap(a)
		if err != nil {
			return nil, err
		}
		advisors = append(advisors, adv)
	}
	return &Interceptor{advisors: advisors, opts: o, matches: xpointcut.NewMatchCache()}, nil
}

// UnaryServer 返回一元服务端拦截器。
func (ic *Interceptor) UnaryServer() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if ic.skipped(info.FullMethod) {
			return handler(ctx, req)
		}
		owner := reflect.TypeOf(info.Server)
		m := xaop.NewFuncMethod(owner, methodName(info.FullMethod), serverCallType)
		chain, err := ic.chainFor(owner, info.FullMethod, m)
		if err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			return handler(ctx, req)
		}

		jp := func(_ context.Context, args []any) ([]any, error) {
			resp, err := handler(args[0].(context.Context), args[1])
			return []any{resp}, err
		}
		inv := xproxy.NewInvocation(ctx, nil, info.Server, m, []any{ctx, req}, chain, jp)
		inv.SetAttribute(AttrFullMethod, info.FullMethod)
		out, err := inv.Proceed()
		var resp any
		if len(out) > 0 {
			resp = out[0]
		}
		return resp, ic.opts.mapper(err)
	}
}

// UnaryClient 返回一元客户端拦截器。
func (ic *Interceptor) UnaryClient() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if ic.skipped(method) {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		m := xaop.NewFuncMethod(clientConnType, methodName(method), clientCallType)
		chain, err := ic.chainFor(clientConnType, method, m)
		if err != nil {
			return err
		}
		if len(chain) == 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		jp := func(_ context.Context, args []any) ([]any, error) {
			return nil, invoker(args[0].(context.Context), method, args[1], args[2], cc, opts...)
		}
		inv := xproxy.NewInvocation(ctx, nil, cc, m, []any{ctx, req, reply}, chain, jp)
		inv.SetAttribute(AttrFullMethod, method)
		_, err = inv.Proceed()
		return ic.opts.mapper(err)
	}
}

func (ic *Interceptor) skipped(fullMethod string) bool {
	return ic.opts.skip != nil && ic.opts.skip(fullMethod)
}

func (ic *Interceptor) chainFor(owner reflect.Type, fullMethod string, m xaop.Method) (xproxy.Chain, error) {
	key := chainKey{owner: owner, fullMethod: fullMethod}
	if v, ok := ic.chains.Load(key); ok {
		return v.(xproxy.Chain), nil
	}
	chain, _, err := xproxy.BuildChain(ic.opts.registry, ic.advisors, m, owner, ic.matches)
	if err != nil {
		ic.opts.logger.Error("xaopgrpc: build chain failed",
			slog.String("method", fullMethod), slog.Any("error", err))
		return nil, status.Error(codes.Internal, fmt.Sprintf("xaopgrpc: %s: %v", fullMethod, err))
	}
	v, _ := ic.chains.LoadOrStore(key, chain)
	ic.opts.logger.Debug("xaopgrpc: chain built",
		slog.String("method", fullMethod), slog.Int("interceptors", len(chain)))
	return v.(xproxy.Chain), nil
}

// FullMethod 返回拦截器为调用记录的 gRPC 完整方法名。
func FullMethod(inv xaop.MethodInvocation) (string, bool) {
	v, ok := inv.Attribute(AttrFullMethod)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// methodName 取 "/pkg.Service/Method" 的最后一段。
func methodName(fullMethod string) string {
	if i := strings.LastIndexByte(fullMethod, '/'); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
