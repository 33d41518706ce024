package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"startuphub/metrics"
)

// fileDB points DB at a SQLite file so dropping idle connections keeps the data.
func fileDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "reset.db")))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(idleConns)
	require.NoError(t, Migrate(db))

	prev := DB
	DB = db
	t.Cleanup(func() {
		DB = prev
		sqlDB.Close()
	})
	return db
}

func TestDefaultRetryPolicyResetsIdleConnections(t *testing.T) {
	db := fileDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	require.NoError(t, db.Create(&User{Name: "a", Email: "a@example.com", PasswordHash: "x", Role: RoleAdmin}).Error)
	require.GreaterOrEqual(t, sqlDB.Stats().Idle, 1)

	calls := 0
	idleOnRetry := -1
	count, err := WithRetry(context.Background(), func() (int64, error) {
		calls++
		if calls == 1 {
			return 0, driver.ErrBadConn
		}
		idleOnRetry = sqlDB.Stats().Idle
		var n int64
		err := db.Model(&User{}).Count(&n).Error
		return n, err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2, calls)
	assert.Zero(t, idleOnRetry)
	assert.GreaterOrEqual(t, sqlDB.Stats().Idle, 1)
}

func TestRetryCountsEachRepeat(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}
	failures := []struct {
		name  string
		fail  int
		err   error
		added float64
	}{
		{"recovers after two", 2, driver.ErrBadConn, 2},
		{"gives up", 3, driver.ErrBadConn, 2},
		{"permanent", 1, errors.New("syntax error"), 0},
		{"first try", 0, nil, 0},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.DBRetries)
			calls := 0
			_, _ = Retry(context.Background(), policy, func() (int, error) {
				calls++
				if calls <= tc.fail {
					return 0, tc.err
				}
				return 1, nil
			})
			assert.Equal(t, tc.added, testutil.ToFloat64(metrics.DBRetries)-before)
		})
	}
}

func TestOpenTranslatesDuplicateKey(t *testing.T) {
	db := fileDB(t)

	u := User{Name: "a", Email: "a@example.com", PasswordHash: "x", Role: RoleAdmin}
	require.NoError(t, db.Create(&u).Error)
	dup := User{Name: "b", Email: "a@example.com", PasswordHash: "x", Role: RoleAdmin}
	err := db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.False(t, IsTransient(err))
}
