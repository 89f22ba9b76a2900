package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "quantumpartners/internal/errors"
	"quantumpartners/internal/models"
)

const (
	activationKeyLength = 6
	resetTokenBytes     = 32
	resetTokenTTL       = time.Hour
)

const activationKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// userService handles user and credential-state business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new, unactivated user and returns the generated
// activation key alongside the record.
func (s *userService) CreateUser(username, email, phone, nationality, fullname, password string) (*models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email and password are required")
	}

	email = strings.ToLower(email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ? OR username = ?", email, username).Count(&count)
	if count > 0 {
		return nil, "", apperrors.ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	key, err := generateActivationKey()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		Phone:         phone,
		Nationality:   nationality,
		Fullname:      fullname,
		Password:      string(hashedPassword),
		Balance:       "0",
		Profit:        "0",
		ActivationKey: &key,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, key, nil
}

// FindByEmailOrUsername retrieves a user by email (case-insensitive) or
// exact username.
func (s *userService) FindByEmailOrUsername(identifier string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// Activate consumes an activation key. The transition is one-way: a consumed
// key no longer matches, so resubmission reports an invalid key, and an
// activated account with a stale key reports already activated.
func (s *userService) Activate(activationKey string) (*models.User, error) {
	if activationKey == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "activation key is required")
	}

	var user models.User
	if err := s.db.Where("activation_key = ?", activationKey).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidActivation
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.IsActivated {
		return nil, apperrors.ErrAlreadyActivated
	}

	user.IsActivated = true
	user.ActivationKey = nil
	if err := s.db.Model(&user).Select("is_activated", "activation_key").Updates(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &user, nil
}

// RegenerateActivationKey issues a fresh key for a not-yet-activated account.
func (s *userService) RegenerateActivationKey(email string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.IsActivated {
		return nil, "", apperrors.ErrAlreadyActivated
	}

	key, err := generateActivationKey()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.ActivationKey = &key
	if err := s.db.Model(&user).Update("activation_key", key).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &user, key, nil
}

// GenerateResetToken creates a time-boxed password reset token. Callers are
// expected not to reveal whether the email exists.
func (s *userService) GenerateResetToken(email string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	token := hex.EncodeToString(raw)
	expiry := time.Now().Add(resetTokenTTL)

	user.ResetPasswordToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.db.Model(&user).Select("reset_password_token", "reset_token_expiry").Updates(&user).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &user, token, nil
}

// ChangePasswordWithToken sets a new password for the holder of a live reset
// token and clears the token.
func (s *userService) ChangePasswordWithToken(token, newPassword string) (*models.User, error) {
	if token == "" || newPassword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "token and new password are required")
	}

	var user models.User
	if err := s.db.Where("reset_password_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Password = string(hashedPassword)
	user.ResetPasswordToken = nil
	user.ResetTokenExpiry = nil
	if err := s.db.Model(&user).Select("password", "reset_password_token", "reset_token_expiry").Updates(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &user, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one.
func (s *userService) UpdatePassword(userID, currentPassword, newPassword string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.Password == "" {
		return nil, apperrors.ErrNoPasswordSet
	}

	if !s.VerifyPassword(user, currentPassword) {
		return nil, apperrors.ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// UpdateInfo updates the mutable contact fields. Empty values leave the
// stored field unchanged.
func (s *userService) UpdateInfo(userID, phone, nationality, fullname string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if phone != "" {
		updates["phone"] = phone
	}
	if nationality != "" {
		updates["nationality"] = nationality
	}
	if fullname != "" {
		updates["fullname"] = fullname
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", user.ID).First(user).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return user, nil
}

func generateActivationKey() (string, error) {
	raw := make([]byte, activationKeyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	for i := range raw {
		raw[i] = activationKeyAlphabet[int(raw[i])%len(activationKeyAlphabet)]
	}
	return string(raw), nil
}
