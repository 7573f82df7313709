package js

import (
	"errors"

	"github.com/dop251/goja"
)

// HostExceptionPrefix the message prefix of errors raised by host callbacks.
const HostExceptionPrefix = "Go Exception: "

// ErrorKind the kind of Error.
type ErrorKind uint8

const (
	// ScriptError the script threw an exception.
	ScriptError ErrorKind = iota
	// HostCallbackError a host function invoked from script failed.
	HostCallbackError
	// ModuleNotFound the module identifier could not be resolved.
	ModuleNotFound
	// IOError reading the module source failed.
	IOError
	// InvalidModule the module identifier or module value is invalid.
	InvalidModule
	// Interrupted the evaluation was interrupted.
	Interrupted
)

var kindNames = [...]string{
	ScriptError:       "ScriptError",
	HostCallbackError: "HostCallbackError",
	ModuleNotFound:    "ModuleNotFound",
	IOError:           "IOError",
	InvalidModule:     "InvalidModule",
	Interrupted:       "Interrupted",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// code the js error code property.
func (k ErrorKind) code() string {
	switch k {
	case HostCallbackError:
		return "ERR_HOST_CALLBACK"
	case ModuleNotFound:
		return "MODULE_NOT_FOUND"
	case IOError:
		return "EIO"
	case InvalidModule:
		return "ERR_INVALID_MODULE"
	default:
		return ""
	}
}

var (
	// ErrScript matches any script exception with errors.Is.
	ErrScript = &Error{Kind: ScriptError}
	// ErrHostCallback matches any host callback error with errors.Is.
	ErrHostCallback = &Error{Kind: HostCallbackError}
	// ErrModuleNotFound matches any module not found error with errors.Is.
	ErrModuleNotFound = &Error{Kind: ModuleNotFound}
	// ErrIO matches any module read error with errors.Is.
	ErrIO = &Error{Kind: IOError}
	// ErrInvalidModule matches any invalid module error with errors.Is.
	ErrInvalidModule = &Error{Kind: InvalidModule}
	// ErrInterrupted matches any interrupted evaluation with errors.Is.
	ErrInterrupted = &Error{Kind: Interrupted}
)

// Error the host visible error of the engine.
type Error struct {
	Kind ErrorKind
	// Message the human-readable message.
	Message string
	// ID the requested module identifier, if any.
	ID string
	// Path the resolved module path, if any.
	Path string
	// Err the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// NotFoundError returns the ModuleNotFound error for the identifier.
func NotFoundError(id string) *Error {
	return &Error{Kind: ModuleNotFound, ID: id, Message: "Module not found: " + id}
}

// Throw the error into the runtime as a js exception.
// A *goja.Exception is rethrown as is, an *Error becomes a js Error
// carrying its message and code.
func (c *Context) Throw(err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex)
	}
	var (
		e  *Error
		ie *goja.InterruptedError
	)
	switch {
	case errors.As(err, &e):
	case errors.As(err, &ie):
		e = &Error{Kind: Interrupted, Message: ie.Error(), Err: err}
	default:
		e = &Error{Kind: HostCallbackError, Message: HostExceptionPrefix + err.Error(), Err: err}
	}
	panic(c.newErrorObject(e))
}

func (c *Context) newErrorObject(e *Error) *goja.Object {
	obj, err := c.runtime.New(c.runtime.Get("Error"), c.runtime.ToValue(e.Message))
	if err != nil {
		return c.runtime.NewGoError(e)
	}
	if code := e.Kind.code(); code != "" {
		_ = obj.Set("code", code)
	}
	c.thrown[obj] = e
	return obj
}

// translate converts the engine errors to *Error.
func (c *Context) translate(err error) error {
	if err == nil {
		return nil
	}
	var (
		e  *Error
		ie *goja.InterruptedError
		ex *goja.Exception
		se *goja.CompilerSyntaxError
	)
	switch {
	case errors.As(err, &ie):
		return &Error{Kind: Interrupted, Message: ie.Error(), Err: err}
	case errors.As(err, &ex):
		if obj, ok := ex.Value().(*goja.Object); ok {
			if e, ok = c.thrown[obj]; ok {
				return e
			}
		}
		// a GoError raised by goja for a func it wrapped itself,
		// e.g. a func nested in a map or returned by a callback
		if cause := ex.Unwrap(); cause != nil {
			if errors.As(cause, &e) {
				return e
			}
			return &Error{Kind: HostCallbackError, Message: HostExceptionPrefix + cause.Error(), Err: cause}
		}
		return &Error{Kind: ScriptError, Message: exceptionMessage(ex), Err: err}
	case errors.As(err, &e):
		return e
	case errors.As(err, &se):
		return &Error{Kind: ScriptError, Message: se.Error(), Err: err}
	default:
		return &Error{Kind: ScriptError, Message: err.Error(), Err: err}
	}
}

// exceptionMessage the thrown value's string form, e.g. "Error: oops".
func exceptionMessage(ex *goja.Exception) (msg string) {
	defer func() {
		if recover() != nil {
			msg = ex.Error()
		}
	}()
	if v := ex.Value(); v != nil {
		return v.String()
	}
	return ex.Error()
}
