package observability

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic is meant for defer statements in background goroutines.
// It recovers a panic, logs the value and stack at Error level, and
// returns normally, keeping the goroutine's crash from killing the
// process.
//
//	defer observability.RecoverPanic(logger, "audit retention sweep")
func RecoverPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
	}
}

// RecoverPanicWithCallback is RecoverPanic plus a cleanup hook run after
// logging, for things like closing channels that other goroutines block
// on.
func RecoverPanicWithCallback(logger *Logger, context string, callback func()) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
		if callback != nil {
			callback()
		}
	}
}

// MustRecover converts a recover() value to an error, nil when no panic
// occurred. The stack trace is not included; use RecoverPanic when the
// trace matters.
//
//	defer func() { err = observability.MustRecover(recover()) }()
func MustRecover(r interface{}) error {
	if r != nil {
		return fmt.Errorf("panic: %v", r)
	}
	return nil
}
