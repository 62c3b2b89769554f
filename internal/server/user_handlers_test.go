package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userApp(mockRepo *MockUserRepository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	s := newMockServer(mockRepo, new(MockListingRepository))
	app.Get("/users", s.ListUsers)
	app.Post("/users", s.CreateUser)
	app.Get("/users/:id", s.GetUser)
	app.Put("/users/:id", s.UpdateUser)
	app.Delete("/users/:id", s.DeleteUser)
	return app
}

var aliceBody = map[string]interface{}{
	"firstName": "Alice",
	"lastName":  "Peeters",
	"email":     "alice@student.be",
}

func TestListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := userApp(mockRepo)

	mockRepo.On("List", mock.Anything).Return([]models.User{
		{ID: 1, FirstName: "Alice", Listings: []models.Listing{{ID: 3, Title: "Desk"}}},
		{ID: 2, FirstName: "Bilal", Listings: []models.Listing{}},
	}, nil).Once()

	resp, raw := doJSON(t, app, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 2)
	assert.Equal(t, uint(1), users[0].ID)
	assert.Len(t, users[0].Listings, 1)
	assert.Contains(t, string(raw), `"listings":[]`)

	mockRepo.On("List", mock.Anything).Return(nil, repoFault(repository.FaultOther)).Once()
	resp, raw = doJSON(t, app, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, raw)
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, string(raw), "driver error")

	mockRepo.AssertExpectations(t)
}

func TestGetUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := userApp(mockRepo)

	tests := []struct {
		name           string
		userIDParam    string
		mockSetup      func()
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "Success",
			userIDParam: "1",
			mockSetup: func() {
				mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Email: "alice@student.be"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			userIDParam:    "abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid ID",
		},
		{
			name:           "Zero ID",
			userIDParam:    "0",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid ID",
		},
		{
			name:           "Negative ID",
			userIDParam:    "-4",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid ID",
		},
		{
			name:        "Not Found",
			userIDParam: "99",
			mockSetup: func() {
				mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, repoFault(repository.FaultNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			resp, raw := doJSON(t, app, http.MethodGet, "/users/"+tt.userIDParam, nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, raw).Error)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app := userApp(mockRepo)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "alice@student.be" && u.FirstName == "Alice"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 1
		}).Return(nil)

		resp, raw := doJSON(t, app, http.MethodPost, "/users", aliceBody)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var user models.User
		require.NoError(t, json.Unmarshal(raw, &user))
		assert.Equal(t, uint(1), user.ID)
		assert.Equal(t, "Peeters", user.LastName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app := userApp(mockRepo)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repoFault(repository.FaultUnique))

		resp, raw := doJSON(t, app, http.MethodPost, "/users", aliceBody)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email already exists", decodeError(t, raw).Error)
	})

	t.Run("Validation failed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app := userApp(mockRepo)

		resp, raw := doJSON(t, app, http.MethodPost, "/users", map[string]string{
			"firstName": "Al1ce",
			"lastName":  "",
			"email":     "alice@",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, raw)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, models.CodeValidation, body.Code)
		assert.Equal(t, []string{
			"firstName cannot contain numbers",
			"lastName is required",
			"email must be a valid email",
		}, body.Errors)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Empty body reports every field", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app := userApp(mockRepo)

		resp, raw := doJSON(t, app, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Len(t, decodeError(t, raw).Errors, 3)
	})

	t.Run("Malformed body", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		app := userApp(mockRepo)

		resp, raw := doJSON(t, app, http.MethodPost, "/users", `{"firstName":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid request body", decodeError(t, raw).Error)
	})
}

func TestUpdateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := userApp(mockRepo)

	mockRepo.On("Update", mock.Anything, uint(1), mock.Anything).
		Return(&models.User{ID: 1, FirstName: "Alice", LastName: "Janssens", Email: "alice@student.be"}, nil)
	mockRepo.On("Update", mock.Anything, uint(2), mock.Anything).
		Return(nil, repoFault(repository.FaultNotFound))
	mockRepo.On("Update", mock.Anything, uint(3), mock.Anything).
		Return(nil, repoFault(repository.FaultUnique))

	body := map[string]string{"firstName": "Alice", "lastName": "Janssens", "email": "alice@student.be"}

	resp, raw := doJSON(t, app, http.MethodPut, "/users/1", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"lastName":"Janssens"`)

	resp, _ = doJSON(t, app, http.MethodPut, "/users/2", body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodPut, "/users/3", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", decodeError(t, raw).Error)

	resp, _ = doJSON(t, app, http.MethodPut, "/users/1", map[string]string{"firstName": "Alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doJSON(t, app, http.MethodPut, "/users/x", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decodeError(t, raw).Error)
}

func TestDeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := userApp(mockRepo)

	mockRepo.On("Delete", mock.Anything, uint(1)).Return(&models.User{ID: 1}, nil)
	mockRepo.On("Delete", mock.Anything, uint(2)).Return(nil, repoFault(repository.FaultNotFound))

	resp, raw := doJSON(t, app, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, raw)

	resp, raw = doJSON(t, app, http.MethodDelete, "/users/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decodeError(t, raw).Error)

	mockRepo.AssertExpectations(t)
}
