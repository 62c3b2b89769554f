package seed

import (
	_ "embed"
	"fmt"

	"marketplace/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yml
var datasetYAML []byte

// Dataset is the fixed demo data: a few students and what they sell.
type Dataset struct {
	Users []UserFixture `yaml:"users"`
}

// UserFixture is a user and the listings they own.
type UserFixture struct {
	FirstName string           `yaml:"firstName"`
	LastName  string           `yaml:"lastName"`
	Email     string           `yaml:"email"`
	Listings  []ListingFixture `yaml:"listings"`
}

type ListingFixture struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	City        string  `yaml:"city"`
	Zip         string  `yaml:"zip"`
}

// LoadDataset parses the embedded demo dataset.
func LoadDataset() (*Dataset, error) {
	return ParseDataset(datasetYAML)
}

// ParseDataset decodes a YAML dataset and rejects fixtures the API itself
// would refuse.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	seen := make(map[string]bool, len(ds.Users))
	for i, u := range ds.Users {
		if u.Email == "" {
			return nil, fmt.Errorf("dataset user %d: email is required", i)
		}
		if seen[u.Email] {
			return nil, fmt.Errorf("dataset user %d: duplicate email %s", i, u.Email)
		}
		seen[u.Email] = true
		for j, l := range u.Listings {
			if l.Title == "" || l.City == "" || l.Zip == "" {
				return nil, fmt.Errorf("dataset user %s listing %d: title, city and zip are required", u.Email, j)
			}
			if l.Price < 0 {
				return nil, fmt.Errorf("dataset user %s listing %d: negative price", u.Email, j)
			}
		}
	}
	return &ds, nil
}

// ListingCount returns the number of listings in the dataset.
func (ds *Dataset) ListingCount() int {
	n := 0
	for _, u := range ds.Users {
		n += len(u.Listings)
	}
	return n
}

func (u UserFixture) model() models.User {
	return models.User{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func (l ListingFixture) model(userID uint) models.Listing {
	return models.Listing{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		City:        l.City,
		Zip:         l.Zip,
		UserID:      userID,
	}
}
