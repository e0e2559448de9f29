package xaop

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_DeclaredMethod(t *testing.T) {
	out, err := Invoke(&greeter{prefix: "hi "}, greetMethod(), []any{context.Background(), "bob"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hi bob"}, out)
}

func TestInvoke_FuncField(t *testing.T) {
	f := &fields{
		Sum:  func(a, b int) int { return a + b },
		Join: func(sep string, parts ...string) string { return strings.Join(parts, sep) },
		Fail: func(context.Context) error { return errors.New("boom") },
	}
	typ := reflect.TypeFor[*fields]()

	sum, _ := LookupMethod(typ, "Sum")
	out, err := Invoke(f, sum, []any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out)

	join, _ := LookupMethod(typ, "Join")
	out, err = Invoke(f, join, []any{"-", []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a-b"}, out)

	fail, _ := LookupMethod(typ, "Fail")
	out, err = Invoke(f, fail, []any{nil})
	assert.EqualError(t, err, "boom")
	assert.Empty(t, out)
}

func TestInvoke_Errors(t *testing.T) {
	typ := reflect.TypeFor[*fields]()
	sum, _ := LookupMethod(typ, "Sum")

	_, err := Invoke(nil, sum, []any{1, 2})
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = Invoke((*fields)(nil), sum, []any{1, 2})
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = Invoke(&fields{}, sum, []any{1, 2})
	assert.ErrorIs(t, err, ErrNilFunc)

	_, err = Invoke(&fields{Sum: func(a, b int) int { return 0 }}, sum, []any{1})
	assert.ErrorIs(t, err, ErrArgumentMismatch)

	_, err = Invoke(&fields{Sum: func(a, b int) int { return 0 }}, sum, []any{1, "x"})
	assert.ErrorIs(t, err, ErrArgumentMismatch)

	_, err = Invoke(&greeter{}, Method{Name: "Missing"}, nil)
	assert.ErrorIs(t, err, ErrMethodNotFound)

	_, err = Invoke(42, Method{Name: "Sum", Kind: KindField}, nil)
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestResultValues(t *testing.T) {
	ft := reflect.TypeFor[func() (string, any, error)]()

	vals, err := ResultValues(ft, []any{"x"}, errors.New("bad"))
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "x", vals[0].Interface())
	assert.True(t, vals[1].IsNil())
	assert.Equal(t, reflect.TypeFor[any](), vals[1].Type())
	assert.EqualError(t, vals[2].Interface().(error), "bad")

	vals, err = ResultValues(ft, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", vals[0].Interface())
	assert.True(t, vals[2].IsNil())

	_, err = ResultValues(ft, []any{42}, nil)
	assert.ErrorIs(t, err, ErrArgumentMismatch)
}

func TestArgsOf(t *testing.T) {
	var nilErr error
	in := []reflect.Value{reflect.ValueOf(1), reflect.ValueOf(&nilErr).Elem()}
	assert.Equal(t, []any{1, nil}, ArgsOf(in))
}
