// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"marketplace/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	// ExtraUsers synthetic users are created on top of the demo dataset.
	ExtraUsers int
	// ListingsPerUser synthetic listings are created for every extra user.
	ListingsPerUser int
	ShouldClean     bool
	DryRun          bool
	RandSeed        int64
}

// Result counts the rows a seeding run created.
type Result struct {
	Users    int
	Listings int
}

// Seed loads the demo dataset and, when requested, synthetic users and
// listings. Dataset rows are matched by email and title, so running it twice
// does not duplicate them.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if db == nil && !opts.DryRun {
		return nil, errors.New("seed: database is required")
	}
	log.Printf("🌱 Starting database seeding with %d extra users...", opts.ExtraUsers)

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearData(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	ds, err := LoadDataset()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if !opts.DryRun {
		if err := seedDataset(ctx, db, ds, res); err != nil {
			return nil, fmt.Errorf("failed to seed dataset: %w", err)
		}
		log.Printf("✓ demo dataset ready (%d users, %d listings)", len(ds.Users), ds.ListingCount())
	}

	f := NewFactory(db, opts)
	for i := 0; i < opts.ExtraUsers; i++ {
		user, err := f.CreateUser(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		res.Users++

		listings, err := f.CreateListings(ctx, user, opts.ListingsPerUser)
		if err != nil {
			return nil, fmt.Errorf("failed to create listings for %s: %w", user.Email, err)
		}
		res.Listings += len(listings)
	}
	if opts.ExtraUsers > 0 {
		log.Printf("✓ %d synthetic users created", opts.ExtraUsers)
	}

	log.Printf("🎉 Database seeding completed: %d users, %d listings created", res.Users, res.Listings)
	return res, nil
}

func seedDataset(ctx context.Context, db *gorm.DB, ds *Dataset, res *Result) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fixture := range ds.Users {
			user := fixture.model()
			created := tx.Omit("Listings").
				Where(models.User{Email: fixture.Email}).
				FirstOrCreate(&user)
			if created.Error != nil {
				return created.Error
			}
			res.Users += int(created.RowsAffected)

			for _, lf := range fixture.Listings {
				listing := lf.model(user.ID)
				created := tx.Omit("User").
					Where(models.Listing{UserID: user.ID, Title: lf.Title}).
					FirstOrCreate(&listing)
				if created.Error != nil {
					return created.Error
				}
				res.Listings += int(created.RowsAffected)
			}
		}
		return nil
	})
}

// ClearData removes every listing and user.
func ClearData(ctx context.Context, db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	db = db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE listings, users RESTART IDENTITY CASCADE;`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Listing{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.User{}).Error
	})
}
