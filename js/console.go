package js

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"reflect"

	"github.com/dop251/goja"
)

func enableConsole(c *Context) {
	con := &console{c}
	obj := c.runtime.NewObject()
	_ = obj.Set("log", con.log)
	_ = obj.Set("info", con.log)
	_ = obj.Set("warn", con.error)
	_ = obj.Set("error", con.error)
	_ = obj.Set("debug", con.debug)
	_ = c.runtime.Set("console", obj)
}

// console implements the js console
type console struct{ c *Context }

func (con *console) write(w io.Writer, call goja.FunctionCall) goja.Value {
	var args []goja.Value
	if len(call.Arguments) > 1 {
		args = call.Arguments[1:]
	}
	line := Format(con.c.runtime, call.Argument(0), args...)
	_, _ = io.WriteString(w, line+"\n")
	return goja.Undefined()
}

// log writes to stdout.
func (con *console) log(call goja.FunctionCall) goja.Value {
	return con.write(con.c.stdout, call)
}

// error writes to stderr.
func (con *console) error(call goja.FunctionCall) goja.Value {
	return con.write(con.c.stderr, call)
}

// debug calls slog.Debug.
func (con *console) debug(call goja.FunctionCall) goja.Value {
	var args []goja.Value
	if len(call.Arguments) > 1 {
		args = call.Arguments[1:]
	}
	con.c.logger.Debug(Format(con.c.runtime, call.Argument(0), args...), slog.String("source", "console"))
	return goja.Undefined()
}

func runeFormat(rt *goja.Runtime, f rune, val goja.Value, w *bytes.Buffer) bool {
	switch f {
	case 's':
		w.WriteString(val.String())
	case 'd':
		w.WriteString(val.ToNumber().String())
	case 'j':
		if j, ok := rt.Get("JSON").(*goja.Object); ok {
			if stringify, ok := goja.AssertFunction(j.Get("stringify")); ok {
				res, err := stringify(j, val)
				if err != nil {
					panic(err)
				}
				w.WriteString(res.String())
			}
		}
	default:
		w.WriteByte('%')
		w.WriteRune(f)
		return false
	}
	return true
}

func bufferFormat(rt *goja.Runtime, b *bytes.Buffer, f string, args ...goja.Value) {
	pct := false
	argNum := 0
	for _, chr := range f {
		if pct { //nolint:nestif
			switch {
			case chr == '%':
				b.WriteByte('%')
			case argNum < len(args):
				if runeFormat(rt, chr, args[argNum], b) {
					argNum++
				}
			default:
				b.WriteByte('%')
				b.WriteRune(chr)
			}
			pct = false
		} else {
			if chr == '%' {
				pct = true
			} else {
				b.WriteRune(chr)
			}
		}
	}

	for _, arg := range args[argNum:] {
		b.WriteByte(' ')
		b.WriteString(valueString(arg))
	}
}

func valueString(v goja.Value) string {
	if m, ok := v.(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err == nil {
			return string(data)
		}
	}
	return v.String()
}

// Format implements the console format, the first string argument
// may contain %s %d %j placeholders.
func Format(rt *goja.Runtime, msg goja.Value, args ...goja.Value) string {
	if goja.IsUndefined(msg) && len(args) == 0 {
		return ""
	}

	if msg.ExportType() != nil && msg.ExportType().Kind() == reflect.String {
		s := msg.String()
		if len(args) > 0 {
			var b bytes.Buffer
			bufferFormat(rt, &b, s, args...)
			s = b.String()
		}
		return s
	}

	var b bytes.Buffer
	b.WriteString(valueString(msg))
	for _, arg := range args {
		b.WriteRune(' ')
		b.WriteString(valueString(arg))
	}
	return b.String()
}
