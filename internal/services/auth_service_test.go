package services

import (
	"errors"
	"testing"
	"time"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:                "Jane Doe",
		Username:            "jane",
		Email:               "Jane@Uni.Test",
		Password:            "Secret@123",
		Batch:               "22",
		UniversityRegNumber: "EG/2022/0001",
		ALYear:              2021,
	}
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())

	user, err := auth.Register(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "jane@uni.test", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Secret@123", user.PasswordHash)
}

func TestAuthService_Register_Validation(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"Missing name", func(in *RegisterInput) { in.Name = " " }, "name"},
		{"Missing username", func(in *RegisterInput) { in.Username = "" }, "username"},
		{"Missing password", func(in *RegisterInput) { in.Password = "" }, "password"},
		{"Missing batch", func(in *RegisterInput) { in.Batch = "" }, "batch"},
		{"Missing reg number", func(in *RegisterInput) { in.UniversityRegNumber = "" }, "university_reg_number"},
		{"Missing AL year", func(in *RegisterInput) { in.ALYear = 0 }, "al_year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, err := auth.Register(in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	_, err := auth.Register(validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name     string
		mutate   func(*RegisterInput)
		expected error
	}{
		{"Same email any case", func(in *RegisterInput) {
			in.Username, in.UniversityRegNumber, in.Email = "other", "EG/2022/0002", "JANE@uni.test"
		}, ErrEmailTaken},
		{"Same username", func(in *RegisterInput) {
			in.Email, in.UniversityRegNumber = "other@uni.test", "EG/2022/0002"
		}, ErrUsernameTaken},
		{"Same reg number", func(in *RegisterInput) {
			in.Email, in.Username = "other@uni.test", "other"
		}, ErrRegNumberTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, err := auth.Register(in)
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, IsConflict(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	_, err := auth.Register(validRegistration())
	require.NoError(t, err)

	for _, identifier := range []string{"jane@uni.test", "JANE", "jane"} {
		tokens, user, err := auth.Login(identifier, "Secret@123")
		require.NoError(t, err, identifier)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.NotNil(t, user.LastLogin)
	}

	_, _, err = auth.Login("jane", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "Secret@123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_Inactive(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	user := createTestUser(t, db)
	_, err := NewUserService(db).SetActive(user.ID, false)
	require.NoError(t, err)

	_, _, err = auth.Login(user.Username, "Password@123")
	assert.ErrorIs(t, err, ErrUserNotActive)
}

func TestAuthService_LegacyBcryptHash(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	user := createTestUser(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("password_hash", string(hash)).Error)

	_, _, err = auth.Login(user.Email, "legacy-pass")
	assert.NoError(t, err)

	_, _, err = auth.Login(user.Email, "not-it")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshAndRevoke(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	user := createTestUser(t, db)

	tokens, err := auth.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := auth.VerifyAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)

	_, err = auth.VerifyAccessToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh tokens cannot authenticate requests")

	_, err = auth.RefreshTokens(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot be refreshed")

	next, err := auth.RefreshTokens(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	_, err = auth.RefreshTokens(tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked, "a refresh token is single use")

	require.NoError(t, auth.RevokeToken(next.RefreshToken))
	_, err = auth.RefreshTokens(next.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	tokens, err := NewAuthService(db, testConfig()).GenerateTokenPair(user)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret"
	_, err = NewAuthService(db, other).VerifyToken(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_PruneExpiredTokens(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(db, testConfig())
	user := createTestUser(t, db)

	live, err := auth.GenerateTokenPair(user)
	require.NoError(t, err)
	revoked, err := auth.GenerateTokenPair(user)
	require.NoError(t, err)
	require.NoError(t, auth.RevokeToken(revoked.RefreshToken))
	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)

	pruned, err := auth.PruneExpiredTokens(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)

	var remaining []models.RefreshToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, live.RefreshToken, remaining[0].Token)
}
