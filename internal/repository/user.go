// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, data *models.User) (*models.User, error)
	Delete(ctx context.Context, id uint) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func preloadListings(db *gorm.DB) *gorm.DB {
	return db.Order("listings.id ASC")
}

func (r *userRepository) List(ctx context.Context) (users []models.User, err error) {
	ctx, done := observe(ctx, tableUsers, "List")
	defer func() { done(err) }()

	if err = r.db.WithContext(ctx).
		Preload("Listings", preloadListings).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, classify(tableUsers, err)
	}
	for i := range users {
		normalizeUser(&users[i])
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, done := observe(ctx, tableUsers, "GetByID")
	defer func() { done(err) }()

	user, err = findUser(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, classify(tableUsers, err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, done := observe(ctx, tableUsers, "Create")
	defer func() { done(err) }()

	user.ID = 0
	if err = r.db.WithContext(ctx).Omit("Listings").Create(user).Error; err != nil {
		return classify(tableUsers, err)
	}
	normalizeUser(user)
	return nil
}

func (r *userRepository) Update(ctx context.Context, id uint, data *models.User) (user *models.User, err error) {
	ctx, done := observe(ctx, tableUsers, "Update")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"first_name": data.FirstName,
			"last_name":  data.LastName,
			"email":      data.Email,
		}).Error; err != nil {
			return err
		}
		found, err := findUser(tx, id)
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, classify(tableUsers, err)
	}
	return user, nil
}

// Delete removes the user and, with it, every listing the user owns.
func (r *userRepository) Delete(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, done := observe(ctx, tableUsers, "Delete")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Listing{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, classify(tableUsers, err)
	}
	return user, nil
}

func findUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Listings", preloadListings).First(&user, id).Error; err != nil {
		return nil, err
	}
	normalizeUser(&user)
	return &user, nil
}

// normalizeUser makes an owner without listings render as an empty list.
func normalizeUser(user *models.User) {
	if user.Listings == nil {
		user.Listings = []models.Listing{}
	}
}
