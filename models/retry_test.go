package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func fastPolicy(resets *int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		Reset: func() error {
			*resets++
			return nil
		},
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), false},
		{"canceled", context.Canceled, false},
		{"bad conn", driver.ErrBadConn, true},
		{"mysql invalid conn", mysql.ErrInvalidConn, true},
		{"driver eof", fmt.Errorf("read: %w", io.EOF), true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"pg prepared statement missing", &pgconn.PgError{Code: "26000"}, true},
		{"pg prepared statement exists", &pgconn.PgError{Code: "42P05"}, true},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"message prepared statement", errors.New(`prepared statement "s0" does not exist`), true},
		{"message connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"validation", errors.New("UNIQUE constraint failed: users.email"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestRetryReturnsFirstSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	resets := 0
	calls := 0
	got, err := Retry(context.Background(), fastPolicy(&resets), func() (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
	assert.Zero(t, resets)
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	defer goleak.VerifyNone(t)

	resets := 0
	calls := 0
	got, err := Retry(context.Background(), fastPolicy(&resets), func() (string, error) {
		calls++
		if calls < 3 {
			return "", driver.ErrBadConn
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, resets)
}

func TestRetryGivesUpWithLastError(t *testing.T) {
	defer goleak.VerifyNone(t)

	resets := 0
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(&resets), func() (int, error) {
		calls++
		return 0, fmt.Errorf("attempt %d: %w", calls, driver.ErrBadConn)
	})

	require.Error(t, err)
	assert.Equal(t, "attempt 3: driver: bad connection", err.Error())
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, resets)
}

func TestRetryDoesNotRepeatPermanentErrors(t *testing.T) {
	resets := 0
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(&resets), func() (int, error) {
		calls++
		return 0, gorm.ErrRecordNotFound
	})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, calls)
	assert.Zero(t, resets)
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: time.Hour,
		Reset: func() error {
			cancel()
			return nil
		},
	}

	calls := 0
	_, err := Retry(ctx, policy, func() (int, error) {
		calls++
		return 0, driver.ErrBadConn
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryBackoffDoubles(t *testing.T) {
	var stamps []time.Time
	policy := RetryPolicy{MaxAttempts: 3, InitialBackoff: 20 * time.Millisecond}

	_, _ = Retry(context.Background(), policy, func() (int, error) {
		stamps = append(stamps, time.Now())
		return 0, driver.ErrBadConn
	})

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestRetryOverPostgresPreparedStatementMismatch(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnError(errors.New(`ERROR: prepared statement "stmtcache_7" does not exist (SQLSTATE 26000)`))
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type"}).AddRow(1, "Demo Day", EventDemoDay))

	resets := 0
	ev, err := Retry(context.Background(), fastPolicy(&resets), func() (Event, error) {
		var e Event
		err := db.First(&e, 1).Error
		return e, err
	})

	require.NoError(t, err)
	assert.Equal(t, "Demo Day", ev.Title)
	assert.Equal(t, 1, resets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
