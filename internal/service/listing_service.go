package service

import (
	"context"

	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
)

// ListingPage is one page of a listing search.
type ListingPage struct {
	Meta  ListingMeta      `json:"meta"`
	Items []models.Listing `json:"items"`
}

// ListingService implements the listing operations.
type ListingService struct {
	listingRepo  repository.ListingRepository
	defaultLimit int
	maxLimit     int
}

// NewListingService returns a ListingService whose searches page by
// defaultLimit rows and never return more than maxLimit.
func NewListingService(listingRepo repository.ListingRepository, defaultLimit, maxLimit int) *ListingService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &ListingService{
		listingRepo:  listingRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Search returns the page of listings described by params along with the
// total number of matches.
func (s *ListingService) Search(ctx context.Context, params ListingQueryParams) (*ListingPage, error) {
	filter, meta := BuildListingFilter(params, s.defaultLimit, s.maxLimit)

	items, total, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	meta.Total = total
	meta.Pages = Pages(total, meta.Limit)
	return &ListingPage{Meta: meta, Items: items}, nil
}

func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, listingFault(err, id)
	}
	return listing, nil
}

func (s *ListingService) CreateListing(ctx context.Context, in validation.ListingInput) (*models.Listing, error) {
	listing, err := s.validListing(in)
	if err != nil {
		return nil, err
	}
	if err := s.listingRepo.Create(ctx, &listing); err != nil {
		return nil, listingFault(err, 0)
	}
	return &listing, nil
}

// UpdateListing replaces every field of the listing.
func (s *ListingService) UpdateListing(ctx context.Context, id uint, in validation.ListingInput) (*models.Listing, error) {
	data, err := s.validListing(in)
	if err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.Update(ctx, id, &data)
	if err != nil {
		return nil, listingFault(err, id)
	}
	return listing, nil
}

func (s *ListingService) DeleteListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.Delete(ctx, id)
	if err != nil {
		return nil, listingFault(err, id)
	}
	return listing, nil
}

func (s *ListingService) validListing(in validation.ListingInput) (models.Listing, error) {
	if errs := validation.ValidateListing(in); len(errs) > 0 {
		return models.Listing{}, rejected("listing", errs)
	}
	listing, err := in.ToModel()
	if err != nil {
		return models.Listing{}, models.NewValidationError(err.Error())
	}
	return listing, nil
}

// listingFault maps a repository fault. A missing owner is a client error,
// a missing listing is a 404.
func listingFault(err error, id uint) error {
	switch repository.FaultOf(err) {
	case repository.FaultNotFound:
		return models.NewNotFoundError("Listing", id)
	case repository.FaultForeignKey:
		return models.NewBadRequestError(models.CodeBadRequest, "User not found", err)
	default:
		return models.NewInternalError(err)
	}
}
