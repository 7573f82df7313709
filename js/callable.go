package js

import (
	"fmt"
	"reflect"

	"github.com/dop251/goja"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// isNativeFunc reports whether fn already uses the goja calling convention.
func isNativeFunc(fn any) bool {
	switch fn.(type) {
	case func(goja.FunctionCall) goja.Value,
		func(goja.FunctionCall, *goja.Runtime) goja.Value,
		func(goja.ConstructorCall) *goja.Object,
		func(goja.ConstructorCall, *goja.Runtime) *goja.Object:
		return true
	}
	return false
}

// wrapFunc adapts a Go function to the goja calling convention.
// Arguments are exported to the parameter types, missing arguments are
// zero values. A trailing non-nil error result, or a panic, is thrown into
// the script as a HostCallbackError.
func (c *Context) wrapFunc(fn reflect.Value) func(goja.FunctionCall) goja.Value {
	typ := fn.Type()
	return func(call goja.FunctionCall) goja.Value {
		args, err := c.exportArgs(typ, call.Arguments)
		if err != nil {
			panic(c.runtime.NewTypeError(err.Error()))
		}

		out, err := invoke(fn, args)
		if err != nil {
			c.Throw(err)
		}

		if n := len(out); n > 0 && typ.Out(n-1) == errorType {
			if e := out[n-1]; !e.IsNil() {
				c.Throw(e.Interface().(error))
			}
			out = out[:n-1]
		}
		switch len(out) {
		case 0:
			return goja.Undefined()
		case 1:
			return c.runtime.ToValue(out[0].Interface())
		default:
			values := make([]any, len(out))
			for i, v := range out {
				values[i] = v.Interface()
			}
			return c.runtime.ToValue(values)
		}
	}
}

func (c *Context) exportArgs(typ reflect.Type, arguments []goja.Value) ([]reflect.Value, error) {
	n := typ.NumIn()
	args := make([]reflect.Value, 0, max(n, len(arguments)))
	for i := 0; i < n; i++ {
		in := typ.In(i)
		if typ.IsVariadic() && i == n-1 {
			for j := i; j < len(arguments); j++ {
				arg, err := c.exportArg(in.Elem(), arguments[j], j)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			break
		}
		value := goja.Undefined()
		if i < len(arguments) {
			value = arguments[i]
		}
		arg, err := c.exportArg(in, value, i)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (c *Context) exportArg(typ reflect.Type, value goja.Value, i int) (reflect.Value, error) {
	ptr := reflect.New(typ)
	if goja.IsUndefined(value) || goja.IsNull(value) {
		return ptr.Elem(), nil
	}
	if err := c.runtime.ExportTo(value, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("could not convert argument %d: %w", i, err)
	}
	return ptr.Elem(), nil
}

// invoke calls fn, recovering host panics as errors.
// Engine panics (thrown js values) pass through.
func invoke(fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *goja.Object, *goja.Exception, *goja.InterruptedError:
				panic(r)
			case error:
				err = v
			default:
				err = fmt.Errorf("%v", v)
			}
		}
	}()
	return fn.Call(args), nil
}
