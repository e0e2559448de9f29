package xpointcut

import (
	"context"
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

type OrderService interface {
	GetOrder(ctx context.Context, id string) (string, error)
	ListOrders(ctx context.Context) ([]string, error)
	Cancel(id string)
}

type Auditable struct{}

type orderService struct {
	Auditable
	Refresh func(ctx context.Context) error
}

func (*orderService) GetOrder(context.Context, string) (string, error) { return "", nil }
func (*orderService) ListOrders(context.Context) ([]string, error)   { return nil, nil }
func (*orderService) Cancel(string)                                   {}

type plain struct{}

func (plain) Hello() {}

var (
	orderIface = reflect.TypeFor[OrderService]()
	orderImpl  = reflect.TypeFor[*orderService]()
	plainType  = reflect.TypeFor[plain]()
)

func method(t reflect.Type, name string) xaop.Method {
	m, ok := xaop.LookupMethod(t, name)
	if !ok {
		panic("no method " + name)
	}
	return m
}
