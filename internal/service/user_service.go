package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/models"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles account registration, authentication, and profile
// management.
type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	Gender      string
	DateOfBirth time.Time
}

type UpdateProfileInput struct {
	UserID       uint
	FullName     *string
	Bio          *string
	ProfileImage *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDateOfBirth(in.DateOfBirth, time.Now()); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Gender != "male" && in.Gender != "female" {
		return nil, models.NewValidationError("gender must be male or female")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, models.NewConflictError("Username already taken")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, models.NewConflictError("Email already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashed),
		FullName:    in.FullName,
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username or email already taken")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials by username or email. The error is
// the same whichever part was wrong.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, strings.TrimSpace(identifier))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields. Gender and date of
// birth are fixed at sign-up and cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	// Read the full row, not the cached copy: the write below saves
	// every column, password hash included.
	user, err := s.userRepo.GetByIDFresh(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.UserID)
		}
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Bio != nil {
		if len([]rune(*in.Bio)) > validation.MaxBioLen {
			return nil, models.NewValidationError("bio too long")
		}
		user.Bio = *in.Bio
	}
	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword changes the user's password after verifying the
// current one. The new password passes the same strength rules as
// sign-up.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByIDFresh(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", userID)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(ctx, query, limit)
}
