// Package xaopgrpc 把 xaop 的 Advisor 应用到 gRPC 一元调用上。
//
// 服务端拦截器以服务实现的类型作为目标类型，客户端拦截器以 *grpc.ClientConn 作为目标类型；
// 方法名取 FullMethod 的最后一段（如 "/pkg.Greeter/SayHello" 取 "SayHello"），
// 完整方法名通过调用属性 AttrFullMethod 读取。
//
// 服务端连接点的签名是 func(ctx context.Context, req any) (any, error)，
// 客户端连接点的签名是 func(ctx context.Context, req, reply any) error。
// 拦截器可以替换 ctx 和请求对象；替换后的值会传给下游 handler 或 invoker。
//
// 链按 (目标类型, FullMethod) 构建一次并缓存；Advisor 在 New 时固定。
//
// 基本用法：
//
//	ic, err := xaopgrpc.New([]xaop.Advice{tracing, breaker})
//	if err != nil {
//	    return err
//	}
//	srv := grpc.NewServer(grpc.UnaryInterceptor(ic.UnaryServer()))
package xaopgrpc
