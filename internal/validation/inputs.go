package validation

import (
	"strings"

	"marketplace/internal/models"
)

// UserInput is the body accepted by POST and PUT /users.
type UserInput struct {
	FirstName string `json:"firstName" validate:"notblank,nodigits"`
	LastName  string `json:"lastName" validate:"notblank,nodigits"`
	Email     string `json:"email" validate:"notblank,strictemail"`
}

// ValidateUser returns the rule violations of in, or nil when it is valid.
func ValidateUser(in UserInput) []string {
	return check(in)
}

// ToModel copies the validated fields into a User, trimming whitespace.
func (in UserInput) ToModel() models.User {
	return models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}
}

// ListingInput is the body accepted by POST and PUT /listings.
type ListingInput struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Price       Number `json:"price" validate:"notblank,numeral,nonnegative"`
	City        string `json:"city" validate:"notblank"`
	Zip         string `json:"zip" validate:"notblank"`
	UserID      Number `json:"userId" validate:"notblank,numeral,posint"`
}

// ValidateListing returns the rule violations of in, or nil when it is valid.
func ValidateListing(in ListingInput) []string {
	return check(in)
}

// ToModel copies the validated fields into a Listing. It must only be called
// after ValidateListing reported no violations.
func (in ListingInput) ToModel() (models.Listing, error) {
	price, err := in.Price.Float64()
	if err != nil {
		return models.Listing{}, err
	}
	userID, err := in.UserID.Uint()
	if err != nil {
		return models.Listing{}, err
	}
	return models.Listing{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		City:        strings.TrimSpace(in.City),
		Zip:         strings.TrimSpace(in.Zip),
		UserID:      userID,
	}, nil
}
