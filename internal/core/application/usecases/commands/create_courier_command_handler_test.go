package commands_test

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing.
type MockCourierRepository struct {
	mock.Mock
}

func (m *MockCourierRepository) Add(ctx context.Context, courier *courier.Courier) error {
	args := m.Called(ctx, courier)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, courier *courier.Courier) error {
	args := m.Called(ctx, courier)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAll(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockCourierUoW struct {
	mock.Mock
}

func (m *MockCourierUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCourierUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockCourierUoWFactory struct {
	mock.Mock
}

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

func TestCreateCourierCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("Alice Johnson")
	require.NoError(t, err)

	var capturedCourier *courier.Courier
	mockRepo := new(MockCourierRepository)
	mockUoW := new(MockCourierUoW)
	mockFactory := new(MockCourierUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CourierRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.MatchedBy(func(c *courier.Courier) bool {
			capturedCourier = c
			return true
		})).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateCourierCommandHandler(mockFactory)

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, commands.CreateCourierResult{
		CourierID: cmd.CourierID(),
		Name:      "Alice Johnson",
		Status:    courier.Available,
	}, result)
	require.NotNil(t, capturedCourier)
	assert.Equal(t, cmd.CourierID(), capturedCourier.ID())
	assert.Equal(t, "Alice Johnson", capturedCourier.Name())
	assert.Equal(t, courier.Available, capturedCourier.Status())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCreateCourierCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.CreateCourierCommand // zero value command

	mockFactory := new(MockCourierUoWFactory)
	handler := commands.NewCreateCourierCommandHandler(mockFactory)

	// Act
	_, err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrCreateCourierCommandIsNotConstructed)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestCreateCourierCommandHandler_Handle_BeginTransactionError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("John Doe")
	require.NoError(t, err)

	expectedError := errors.New("begin transaction failed")
	mockUoW := new(MockCourierUoW)
	mockFactory := new(MockCourierUoWFactory)

	mock.InOrder(
		mockFactory.On("Create").Return(mockUoW).Once(),
		mockUoW.On("Begin", ctx).Return(expectedError).Once(),
	)

	handler := commands.NewCreateCourierCommandHandler(mockFactory)

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	assert.Equal(t, expectedError, err)
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestCreateCourierCommandHandler_Handle_RepositoryAddError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("John Doe")
	require.NoError(t, err)

	repoError := errors.New("repository add failed")
	rollbackError := errors.New("rollback failed")
	mockRepo := new(MockCourierRepository)
	mockUoW := new(MockCourierUoW)
	mockFactory := new(MockCourierUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CourierRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(repoError).Once(),
		mockUoW.On("Rollback", ctx).Return(rollbackError).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateCourierCommandHandler(mockFactory)

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	// Should return the repository error, not the rollback error
	require.ErrorIs(t, err, repoError)
	assert.NotErrorIs(t, err, rollbackError)
	assert.Contains(t, err.Error(), cmd.CourierID().String())
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCreateCourierCommandHandler_Handle_CommitError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("John Doe")
	require.NoError(t, err)

	expectedError := errors.New("commit failed")
	mockRepo := new(MockCourierRepository)
	mockUoW := new(MockCourierUoW)
	mockFactory := new(MockCourierUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CourierRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(expectedError).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateCourierCommandHandler(mockFactory)

	// Act
	_, err = handler.Handle(ctx, cmd)

	// Assert
	assert.Equal(t, expectedError, err)
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}
