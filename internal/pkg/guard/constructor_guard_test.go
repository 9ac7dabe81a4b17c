package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_passes", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When / Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		// When
		err := g.Validate(expected)

		// Then
		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type placeCommand struct {
		quantity int
		guard    guard.ConstructorGuard
	}

	errNotConstructed := errors.New("placeCommand must be created via newPlaceCommand")
	newPlaceCommand := func(quantity int) placeCommand {
		return placeCommand{quantity: quantity, guard: guard.NewConstructorGuard()}
	}

	t.Run("constructed_command_is_valid", func(t *testing.T) {
		cmd := newPlaceCommand(3)

		require.NoError(t, cmd.guard.Validate(errNotConstructed))
		assert.Equal(t, 3, cmd.quantity)
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := placeCommand{quantity: 3}

		require.ErrorIs(t, cmd.guard.Validate(errNotConstructed), errNotConstructed)
	})
}
