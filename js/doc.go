// Package js the JavaScript engine context.
//
// Evaluate scripts and expose Go functions:
//
//	func main() {
//		ctx := js.NewContext()
//		_ = ctx.Set("add", func(a, b int) int { return a + b })
//
//		value, err := ctx.Eval("add(10, 20)")
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(value) // 30
//	}
//
// Errors returned by the context are *Error, match them with errors.Is:
//
//	_, err := ctx.Eval("fail()")
//	if errors.Is(err, js.ErrHostCallback) {
//		// a Go function called from the script failed
//	}
package js
