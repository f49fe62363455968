package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/liverool/volleymate/internal/models"
	"github.com/liverool/volleymate/internal/repository"
	"github.com/liverool/volleymate/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidResetCode   = errors.New("invalid or expired recovery code")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email address")
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = time.Hour
	confirmTokenTTL = 24 * time.Hour
)

type AuthService struct {
	userRepo    repository.UserRepositoryInterface
	refreshRepo repository.RefreshTokenRepositoryInterface
	oneTimeRepo repository.OneTimeTokenRepositoryInterface
}

func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	refreshRepo repository.RefreshTokenRepositoryInterface,
	oneTimeRepo repository.OneTimeTokenRepositoryInterface,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		oneTimeRepo: oneTimeRepo,
	}
}

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthSession struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	User         models.UserResponse `json:"user"`
}

func confirmationRequired() bool {
	return os.Getenv("REQUIRE_EMAIL_CONFIRMATION") == "true"
}

func (s *AuthService) Register(input RegisterInput) (*AuthSession, error) {
	email := validation.NormalizeEmail(input.Email)
	if !validation.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  validation.TrimAndLimit(input.DisplayName, 100),
	}
	if !confirmationRequired() {
		now := time.Now()
		user.EmailConfirmedAt = &now
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthSession, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(input.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if confirmationRequired() && !user.IsConfirmed() {
		return nil, ErrEmailNotConfirmed
	}

	return s.issueSession(user)
}

// Refresh rotates the presented refresh token and returns a fresh session.
func (s *AuthService) Refresh(refreshToken string) (*AuthSession, error) {
	stored, err := s.refreshRepo.FindValidByHash(hashToken(refreshToken))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.refreshRepo.RevokeByHash(stored.TokenHash); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// Logout revokes the refresh token. Revocation failures are swallowed:
// the client treats logout as always successful.
func (s *AuthService) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	_ = s.refreshRepo.RevokeByHash(hashToken(refreshToken))
}

// ForgotPassword issues a one-time recovery code when the address exists.
// It returns (code, nil) either way; an unknown address yields an empty
// code so callers can keep the user-visible response uniform.
func (s *AuthService) ForgotPassword(email string) (string, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", nil
	}
	return s.issueOneTimeCode(user.ID, models.PurposePasswordReset, resetTokenTTL)
}

type ResetPasswordInput struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetPassword exchanges a one-time recovery code for a credential update.
// All outstanding sessions are revoked on success.
func (s *AuthService) ResetPassword(input ResetPasswordInput) (*AuthSession, error) {
	if !validation.ValidatePassword(input.NewPassword) {
		return nil, ErrWeakPassword
	}

	token, err := s.oneTimeRepo.FindValidByHash(hashToken(input.Code), models.PurposePasswordReset)
	if err != nil {
		return nil, ErrInvalidResetCode
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, ErrInvalidResetCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePasswordHash(user.ID, string(hashedPassword)); err != nil {
		return nil, err
	}

	if err := s.oneTimeRepo.Consume(token.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.refreshRepo.RevokeAllForUser(user.ID); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// ResendConfirmation issues a fresh confirmation code. Same uniform-response
// contract as ForgotPassword.
func (s *AuthService) ResendConfirmation(email string) (string, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(email))
	if err != nil || user.IsConfirmed() {
		return "", nil
	}
	return s.issueOneTimeCode(user.ID, models.PurposeEmailConfirm, confirmTokenTTL)
}

// ConfirmEmail exchanges a confirmation code.
func (s *AuthService) ConfirmEmail(code string) error {
	token, err := s.oneTimeRepo.FindValidByHash(hashToken(code), models.PurposeEmailConfirm)
	if err != nil {
		return ErrInvalidResetCode
	}
	now := time.Now()
	if err := s.userRepo.ConfirmEmail(token.UserID, now); err != nil {
		return err
	}
	return s.oneTimeRepo.Consume(token.ID, now)
}

func (s *AuthService) issueSession(user *models.User) (*AuthSession, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	if err := s.refreshRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

func (s *AuthService) issueOneTimeCode(userID uint, purpose models.TokenPurpose, ttl time.Duration) (string, error) {
	code := uuid.NewString()
	err := s.oneTimeRepo.Create(&models.OneTimeToken{
		UserID:    userID,
		TokenHash: hashToken(code),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
