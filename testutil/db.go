// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"startuphub/models"
)

// SetupDB points models.DB at a fresh migrated in-memory SQLite database for the test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := models.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	require.NoError(t, models.Migrate(db))

	prev := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = prev
		sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with the given role and returns it.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	u := models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateCall inserts a published call whose deadline is a week away.
func CreateCall(t *testing.T, db *gorm.DB, adminID uint) models.StartupCall {
	t.Helper()

	call := models.StartupCall{
		Title:               "Fintech 2026",
		Industry:            "fintech",
		Status:              models.CallPublished,
		ApplicationDeadline: time.Now().Add(7 * 24 * time.Hour),
		FundingAmount:       50000,
		CreatedByID:         adminID,
	}
	require.NoError(t, db.Create(&call).Error)
	return call
}
