package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"marketplace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

var belgianCities = []struct{ City, Zip string }{
	{"Brussels", "1000"},
	{"Leuven", "3000"},
	{"Antwerp", "2000"},
	{"Ghent", "9000"},
	{"Liège", "4000"},
	{"Namur", "5000"},
	{"Mons", "7000"},
	{"Hasselt", "3500"},
	{"Bruges", "8000"},
	{"Louvain-la-Neuve", "1348"},
}

// NewFactory creates a Factory bound to db. A zero opts.RandSeed gives a
// different stream on every run.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{
		db:     db,
		faker:  gofakeit.New(opts.RandSeed),
		opts:   opts,
		nextID: 1000,
	}
}

// BuildUser returns an unsaved user with a unique student email. n keeps the
// email unique within one run.
func (f *Factory) BuildUser(n int, overrides ...func(*models.User)) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	user := &models.User{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d.%d@student.be", slug(first), slug(last), n, f.faker.Number(100, 999)),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildListing returns an unsaved listing owned by user.
func (f *Factory) BuildListing(user *models.User, overrides ...func(*models.Listing)) *models.Listing {
	place := belgianCities[f.faker.Number(0, len(belgianCities)-1)]
	listing := &models.Listing{
		Title:       f.faker.ProductName(),
		Description: f.faker.Sentence(10),
		Price:       f.faker.Price(5, 800),
		City:        place.City,
		Zip:         place.Zip,
		UserID:      user.ID,
	}
	for _, override := range overrides {
		override(listing)
	}
	return listing
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(n, overrides...)
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Email)
		return user, nil
	}
	if err := f.db.WithContext(ctx).Omit("Listings").Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateListings builds and persists count listings for user in one batch.
func (f *Factory) CreateListings(ctx context.Context, user *models.User, count int) ([]models.Listing, error) {
	listings := make([]models.Listing, 0, count)
	for i := 0; i < count; i++ {
		listings = append(listings, *f.BuildListing(user))
	}
	if len(listings) == 0 {
		return listings, nil
	}
	if f.opts.DryRun {
		for i := range listings {
			f.nextID++
			listings[i].ID = f.nextID
		}
		log.Printf("[dry-run] CreateListings: %d listings for %s", len(listings), user.Email)
		return listings, nil
	}
	if err := f.db.WithContext(ctx).Omit("User").Create(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "student"
	}
	return b.String()
}
