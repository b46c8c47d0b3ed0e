package evaluator

import "fmt"

// panicToError normalizes whatever recover() returned into an error, since a body is
// free to panic with any value.
func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
