package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	params *argon2id.Params
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	TokenType string    `json:"typ"`
	jwt.RegisteredClaims
}

// RegisterInput carries a self sign-up
type RegisterInput struct {
	Name                string
	Username            string
	Email               string
	Password            string
	Batch               string
	UniversityRegNumber string
	ALYear              int
	University          string
	Degree              string
	Telephone           string
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	params := &argon2id.Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}

	return &AuthService{
		db:     db,
		cfg:    cfg,
		params: params,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, s.params)
}

// VerifyPassword checks a password against an argon2id hash or a legacy
// bcrypt hash carried over from the previous system.
func (s *AuthService) VerifyPassword(hash, password string) (bool, error) {
	if isBcryptHash(hash) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}
	return argon2id.ComparePasswordAndHash(password, hash)
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// Register creates a student account after checking every unique field
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	required := []struct{ field, value string }{
		{"name", in.Name},
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
		{"batch", in.Batch},
		{"university_reg_number", in.UniversityRegNumber},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, invalid(r.field, "is required")
		}
	}
	if in.ALYear <= 0 {
		return nil, invalid("al_year", "is required")
	}

	user := &models.User{
		Name:                strings.TrimSpace(in.Name),
		Username:            strings.TrimSpace(in.Username),
		Email:               strings.ToLower(strings.TrimSpace(in.Email)),
		Role:                models.RoleStudent,
		Batch:               strings.TrimSpace(in.Batch),
		UniversityRegNumber: strings.TrimSpace(in.UniversityRegNumber),
		ALYear:              in.ALYear,
		University:          in.University,
		Degree:              in.Degree,
		Telephone:           in.Telephone,
		IsActive:            true,
	}

	if err := checkUserUnique(s.db, user, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.CreateUser(user, in.Password); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// checkUserUnique rejects email, username or registration number already held
// by a user other than self.
func checkUserUnique(db *gorm.DB, user *models.User, self uuid.UUID) error {
	checks := []struct {
		query string
		value string
		err   error
	}{
		{"LOWER(email) = LOWER(?)", user.Email, ErrEmailTaken},
		{"LOWER(username) = LOWER(?)", user.Username, ErrUsernameTaken},
		{"university_reg_number = ?", user.UniversityRegNumber, ErrRegNumberTaken},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var count int64
		if err := db.Model(&models.User{}).Where(c.query, c.value).Where("id <> ?", self).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return c.err
		}
	}
	return nil
}

// Login accepts either an email address or a username as identifier
func (s *AuthService) Login(identifier, password string) (*TokenPair, *models.User, error) {
	var user models.User
	identifier = strings.TrimSpace(identifier)
	err := s.db.Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	match, err := s.VerifyPassword(user.PasswordHash, password)
	if err != nil || !match {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrUserNotActive
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, nil, err
	}
	user.LastLogin = &now

	tokens, err := s.GenerateTokenPair(&user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, &user, nil
}

func (s *AuthService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	now := time.Now()

	// Access token
	accessClaims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		Username:  user.Username,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	// Refresh token; the random ID keeps tokens issued within the same second distinct
	refreshClaims := &Claims{
		UserID:    user.ID,
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	// Store refresh token
	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: now.Add(s.cfg.JWT.RefreshExpiry),
		Revoked:   false,
	}
	if err := s.db.Create(rt).Error; err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.cfg.JWT.AccessExpiry.Seconds()),
	}, nil
}

func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	// Check if token is revoked
	var rt models.RefreshToken
	if err := s.db.Where("token = ?", refreshToken).First(&rt).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return nil, ErrTokenRevoked
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if !user.IsActive {
		return nil, ErrUserNotActive
	}

	// Revoke old token
	if err := s.db.Model(&rt).Update("revoked", true).Error; err != nil {
		return nil, err
	}

	return s.GenerateTokenPair(&user)
}

func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyAccessToken is VerifyToken restricted to access tokens
func (s *AuthService) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) RevokeToken(refreshToken string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("revoked", true).Error
}

func (s *AuthService) CreateUser(user *models.User, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	return s.db.Create(user).Error
}

// PruneExpiredTokens deletes refresh tokens that expired or were revoked
func (s *AuthService) PruneExpiredTokens(now time.Time) (int64, error) {
	result := s.db.Where("expires_at < ? OR revoked = ?", now, true).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
