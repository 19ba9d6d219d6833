// Package guard implements the constructor-guard pattern: a defensive mechanism
// that ensures value objects, entities, commands, and queries are only created
// through their designated constructor functions rather than as zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was initialized through its
// constructor or created as a zero value. Embed one in a domain object and call
// Validate with the object's own not-constructed error.
//
// Example usage:
//
//	var ErrTransactionNotConstructed = errors.New("PackageTransaction must be created via NewPackageTransaction")
//
//	type PackageTransaction struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func (t PackageTransaction) Validate() error {
//	    return t.guard.Validate(ErrTransactionNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a ConstructorGuard that marks an object as
// properly constructed. Call it inside the constructor of the guarded object.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was properly constructed.
//
// Returns:
//   - nil if the object was properly constructed
//   - validationError if the object was not constructed through its constructor
//   - ErrDefaultConstructorGuard if validationError is nil and the object was not constructed
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
