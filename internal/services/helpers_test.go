package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/database"
	"github.com/academic-tracker/backend/internal/logging"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, logging.Nop()))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		},
		Argon2: config.Argon2Config{
			Memory:      1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

var userSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Name:                fmt.Sprintf("Student %d", userSeq),
		Username:            fmt.Sprintf("student%d", userSeq),
		Email:               fmt.Sprintf("student%d@uni.test", userSeq),
		Role:                models.RoleStudent,
		Batch:               "21",
		UniversityRegNumber: fmt.Sprintf("REG/%04d", userSeq),
		ALYear:              2020,
		IsActive:            true,
	}
	require.NoError(t, NewAuthService(db, testConfig()).CreateUser(user, "Password@123"))
	return user
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }
