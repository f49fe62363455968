package service

import (
	"errors"

	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/repository"
	"github.com/liverool/volleymate/internal/validation"
)

var ErrInvalidLevel = errors.New("level must be between 1 and 10")

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	DisplayName      string `json:"display_name"`
	HomeMunicipality string `json:"home_municipality"`
	Level            int    `json:"level"`
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

// UpdateProfile handles both onboarding and later edits. Zero values leave
// the corresponding field untouched.
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if input.DisplayName != "" {
		user.DisplayName = validation.TrimAndLimit(input.DisplayName, 100)
	}
	if input.HomeMunicipality != "" {
		user.HomeMunicipality = validation.TrimAndLimit(input.HomeMunicipality, 100)
	}
	if input.Level != 0 {
		if !validation.ValidateLevel(input.Level) {
			return nil, ErrInvalidLevel
		}
		user.Level = input.Level
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}
