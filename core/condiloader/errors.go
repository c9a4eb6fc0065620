package condiloader

import "fmt"

// InvalidConditionError means a condition clause cannot be compiled.
type InvalidConditionError struct {
	Item   string
	Clause Clause
	Err    error
}

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("item %q: invalid %s condition %q: %v", e.Item, e.Clause.Kind, e.Clause.Expr, e.Err)
}

func (e *InvalidConditionError) Unwrap() error {
	return e.Err
}

// CallbackPanicError means a completion action of an item panicked: its
// OnReady callback or a listener of its event.
type CallbackPanicError struct {
	Item     string
	Callback string
	Err      error
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("item %q: %s panicked: %v", e.Item, e.Callback, e.Err)
}

func (e *CallbackPanicError) Unwrap() error {
	return e.Err
}
