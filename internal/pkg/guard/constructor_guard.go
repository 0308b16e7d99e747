// Package guard enforces that domain objects and commands are built through
// their constructors instead of struct literals.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as constructed. Embed it in a struct, set it in
// the constructor, and call Validate from the struct's own Validate method:
//
//	type SubmitBidCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c SubmitBidCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitBidCommandIsNotConstructed)
//	}
//
// A zero value fails validation. The guard is immutable and safe to copy.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the owning value was not created by its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
