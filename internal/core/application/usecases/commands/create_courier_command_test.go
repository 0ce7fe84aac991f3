package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCourierCommand_ValidInput(t *testing.T) {
	// Act
	cmd, err := commands.NewCreateCourierCommand("John Doe")

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, cmd)
	assert.Equal(t, "John Doe", cmd.Name())
	assert.NoError(t, cmd.CourierID().Validate())
}

func TestNewCreateCourierCommand_TrimsName(t *testing.T) {
	cmd, err := commands.NewCreateCourierCommand("  José María ")

	require.NoError(t, err)
	assert.Equal(t, "José María", cmd.Name())
}

func TestNewCreateCourierCommand_EmptyName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := commands.NewCreateCourierCommand(name)

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrNameIsRequired)
	}
}

func TestNewCreateCourierCommand_GeneratesUniqueIDs(t *testing.T) {
	cmd1, err := commands.NewCreateCourierCommand("Courier 1")
	require.NoError(t, err)
	cmd2, err := commands.NewCreateCourierCommand("Courier 2")
	require.NoError(t, err)

	assert.NotEqual(t, cmd1.CourierID(), cmd2.CourierID())
}

func TestCreateCourierCommand_Validate_ZeroValue(t *testing.T) {
	// Arrange
	var cmd commands.CreateCourierCommand // zero value, not constructed via constructor

	// Act
	err := cmd.Validate()

	// Assert
	require.ErrorIs(t, err, commands.ErrCreateCourierCommandIsNotConstructed)
}
