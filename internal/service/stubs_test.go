package service

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	listFn    func(context.Context) ([]models.User, error)
	getByIDFn func(context.Context, uint) (*models.User, error)
	createFn  func(context.Context, *models.User) error
	updateFn  func(context.Context, uint, *models.User) (*models.User, error)
	deleteFn  func(context.Context, uint) (*models.User, error)
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, data *models.User) (*models.User, error) {
	return s.updateFn(ctx, id, data)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) (*models.User, error) {
	return s.deleteFn(ctx, id)
}

// noopUserRepo fails the test on any call that was not explicitly stubbed.
func noopUserRepo(t *testing.T) *userRepoStub {
	unexpected := func() { t.Helper(); t.Fatal("unexpected user repository call") }
	return &userRepoStub{
		listFn:    func(context.Context) ([]models.User, error) { unexpected(); return nil, nil },
		getByIDFn: func(context.Context, uint) (*models.User, error) { unexpected(); return nil, nil },
		createFn:  func(context.Context, *models.User) error { unexpected(); return nil },
		updateFn:  func(context.Context, uint, *models.User) (*models.User, error) { unexpected(); return nil, nil },
		deleteFn:  func(context.Context, uint) (*models.User, error) { unexpected(); return nil, nil },
	}
}

type listingRepoStub struct {
	listFn    func(context.Context, repository.ListingFilter) ([]models.Listing, int64, error)
	getByIDFn func(context.Context, uint) (*models.Listing, error)
	createFn  func(context.Context, *models.Listing) error
	updateFn  func(context.Context, uint, *models.Listing) (*models.Listing, error)
	deleteFn  func(context.Context, uint) (*models.Listing, error)
}

func (s *listingRepoStub) List(ctx context.Context, f repository.ListingFilter) ([]models.Listing, int64, error) {
	return s.listFn(ctx, f)
}
func (s *listingRepoStub) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.getByIDFn(ctx, id)
}
func (s *listingRepoStub) Create(ctx context.Context, l *models.Listing) error {
	return s.createFn(ctx, l)
}
func (s *listingRepoStub) Update(ctx context.Context, id uint, data *models.Listing) (*models.Listing, error) {
	return s.updateFn(ctx, id, data)
}
func (s *listingRepoStub) Delete(ctx context.Context, id uint) (*models.Listing, error) {
	return s.deleteFn(ctx, id)
}

func noopListingRepo(t *testing.T) *listingRepoStub {
	unexpected := func() { t.Helper(); t.Fatal("unexpected listing repository call") }
	return &listingRepoStub{
		listFn: func(context.Context, repository.ListingFilter) ([]models.Listing, int64, error) {
			unexpected()
			return nil, 0, nil
		},
		getByIDFn: func(context.Context, uint) (*models.Listing, error) { unexpected(); return nil, nil },
		createFn:  func(context.Context, *models.Listing) error { unexpected(); return nil },
		updateFn:  func(context.Context, uint, *models.Listing) (*models.Listing, error) { unexpected(); return nil, nil },
		deleteFn:  func(context.Context, uint) (*models.Listing, error) { unexpected(); return nil, nil },
	}
}

func fault(f repository.Fault) error {
	return &repository.FaultError{Fault: f, Table: "test", Err: errors.New("driver error")}
}

// assertAppError asserts that err is an AppError with the given code and message.
func assertAppError(t *testing.T, err error, code, message string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
	return appErr
}
