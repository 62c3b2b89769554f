// Package service holds the business operations behind the HTTP handlers.
// Services validate input, call the repositories and translate persistence
// faults into *models.AppError values the handlers can render.
package service

import (
	"context"

	"marketplace/internal/models"
	"marketplace/internal/observability"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
)

// UserService implements the user operations.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every user with their listings, ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userFault(err, id)
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, in validation.UserInput) (*models.User, error) {
	if errs := validation.ValidateUser(in); len(errs) > 0 {
		return nil, rejected("user", errs)
	}

	user := in.ToModel()
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, userFault(err, 0)
	}
	return &user, nil
}

// UpdateUser replaces every field of the user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in validation.UserInput) (*models.User, error) {
	if errs := validation.ValidateUser(in); len(errs) > 0 {
		return nil, rejected("user", errs)
	}

	data := in.ToModel()
	user, err := s.userRepo.Update(ctx, id, &data)
	if err != nil {
		return nil, userFault(err, id)
	}
	return user, nil
}

// DeleteUser removes the user together with their listings.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, userFault(err, id)
	}
	return user, nil
}

func userFault(err error, id uint) error {
	switch repository.FaultOf(err) {
	case repository.FaultNotFound:
		return models.NewNotFoundError("User", id)
	case repository.FaultUnique:
		return models.NewBadRequestError(models.CodeBadRequest, "Email already exists", err)
	default:
		return models.NewInternalError(err)
	}
}

func rejected(entity string, errs []string) error {
	observability.ValidationFailures.WithLabelValues(entity).Inc()
	return models.NewValidationErrors(errs)
}
