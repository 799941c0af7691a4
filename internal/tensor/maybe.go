package tensor

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrOp is wrapped by errors returned from Maybe.
var ErrOp = errors.New("tensor operation failed")

// Maybe runs fn and converts a panic raised by a tensor, backend or layer
// operation into a returned error wrapping ErrOp. Panics with a string or
// error value are converted; runtime errors such as nil dereferences are
// re-raised.
//
// Example:
//
//	var out *tensor.Tensor[float32, B]
//	err := tensor.Maybe(func() {
//	    out = conv.Forward(x)
//	})
func Maybe(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case runtime.Error:
			panic(v)
		case error:
			err = fmt.Errorf("%w: %w", ErrOp, v)
		case string:
			err = fmt.Errorf("%w: %s", ErrOp, v)
		default:
			panic(r)
		}
	}()
	fn()
	return nil
}
