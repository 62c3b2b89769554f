package repository

import (
	"context"

	"marketplace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingFilter is a constrained listing query. Pattern is a ready-to-use,
// lower-cased LIKE pattern; an empty Pattern matches every listing.
type ListingFilter struct {
	Pattern   string
	SortField string
	SortDesc  bool
	Limit     int
	Offset    int
}

// sortColumns maps the public sort keys to their column.
var sortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"price":     "price",
	"city":      "city",
	"createdAt": "created_at",
}

// SortColumn returns the column for a public sort key.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	List(ctx context.Context, filter ListingFilter) ([]models.Listing, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id uint, data *models.Listing) (*models.Listing, error)
	Delete(ctx context.Context, id uint) (*models.Listing, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

const searchClause = `(LOWER(listings.title) LIKE ? ESCAPE '\' OR LOWER(listings.description) LIKE ? ESCAPE '\' ` +
	`OR LOWER(listings.city) LIKE ? ESCAPE '\' OR LOWER(listings.zip) LIKE ? ESCAPE '\')`

func applySearch(db *gorm.DB, pattern string) *gorm.DB {
	if pattern == "" {
		return db
	}
	return db.Where(searchClause, pattern, pattern, pattern, pattern)
}

// List returns one page of listings matching filter together with the total
// number of matching rows.
func (r *listingRepository) List(ctx context.Context, filter ListingFilter) (listings []models.Listing, total int64, err error) {
	ctx, done := observe(ctx, tableListings, "List")
	defer func() { done(err) }()

	db := r.db.WithContext(ctx)

	if err = applySearch(db.Model(&models.Listing{}), filter.Pattern).Count(&total).Error; err != nil {
		return nil, 0, classify(tableListings, err)
	}

	col, ok := SortColumn(filter.SortField)
	if !ok {
		col = "id"
	}
	order := []clause.OrderByColumn{
		{Column: clause.Column{Table: tableListings, Name: col}, Desc: filter.SortDesc},
	}
	if col != "id" {
		order = append(order, clause.OrderByColumn{Column: clause.Column{Table: tableListings, Name: "id"}, Desc: filter.SortDesc})
	}

	if err = applySearch(db, filter.Pattern).
		Preload("User").
		Clauses(clause.OrderBy{Columns: order}).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&listings).Error; err != nil {
		return nil, 0, classify(tableListings, err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, total, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (listing *models.Listing, err error) {
	ctx, done := observe(ctx, tableListings, "GetByID")
	defer func() { done(err) }()

	listing, err = findListing(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, classify(tableListings, err)
	}
	return listing, nil
}

// Create inserts listing and loads its owner into listing.User.
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) (err error) {
	ctx, done := observe(ctx, tableListings, "Create")
	defer func() { done(err) }()

	listing.ID = 0
	listing.User = nil
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(listing, listing.ID).Error
	})
	if err != nil {
		return classify(tableListings, err)
	}
	return nil
}

func (r *listingRepository) Update(ctx context.Context, id uint, data *models.Listing) (listing *models.Listing, err error) {
	ctx, done := observe(ctx, tableListings, "Update")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Listing
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"title":       data.Title,
			"description": data.Description,
			"price":       data.Price,
			"city":        data.City,
			"zip":         data.Zip,
			"user_id":     data.UserID,
		}).Error; err != nil {
			return err
		}
		found, err := findListing(tx, id)
		if err != nil {
			return err
		}
		listing = found
		return nil
	})
	if err != nil {
		return nil, classify(tableListings, err)
	}
	return listing, nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint) (listing *models.Listing, err error) {
	ctx, done := observe(ctx, tableListings, "Delete")
	defer func() { done(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findListing(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Listing{}, id).Error; err != nil {
			return err
		}
		listing = found
		return nil
	})
	if err != nil {
		return nil, classify(tableListings, err)
	}
	return listing, nil
}

func findListing(db *gorm.DB, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := db.Preload("User").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}
