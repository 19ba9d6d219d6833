package guard_test

import (
	"errors"
	"testing"

	"freightops/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		customError := errors.New("not constructed")

		assert.NoError(t, g.Validate(customError))
		assert.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		assert.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard // zero value

		err := g.Validate(nil)

		assert.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample demonstrates how ConstructorGuard should be used
// in a domain object to enforce constructor usage.
func TestConstructorGuardUsageExample(t *testing.T) {
	type StepRequest struct {
		code  string
		guard guard.ConstructorGuard
	}

	var ErrStepRequestNotConstructed = errors.New("StepRequest must be created via NewStepRequest")

	NewStepRequest := func(code string) (StepRequest, error) {
		if code == "" {
			return StepRequest{}, errors.New("code is required")
		}
		return StepRequest{code: code, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		req, err := NewStepRequest("select")
		assert.NoError(t, err)
		assert.NoError(t, req.guard.Validate(ErrStepRequestNotConstructed))
		assert.Equal(t, "select", req.code)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var req StepRequest
		err := req.guard.Validate(ErrStepRequestNotConstructed)
		assert.Error(t, err)
		assert.Equal(t, ErrStepRequestNotConstructed, err)
	})
}
