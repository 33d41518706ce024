package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"startuphub/metrics"
)

// RetryPolicy bounds how a database call is repeated after a transient failure.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	// Reset runs between attempts; nil means no reset.
	Reset func() error
}

// DefaultRetryPolicy resets the package DB between attempts.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	Reset:          func() error { return ResetConnection(DB) },
}

var transientMessages = []string{
	"connection reset",
	"connection refused",
	"broken pipe",
	"bad connection",
	"invalid connection",
	"connection terminated",
	"server closed the connection",
	"conn closed",
	"unexpected eof",
}

// IsTransient reports whether err looks like a dropped connection or a prepared-statement
// mismatch that a fresh connection would not hit.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "26000", pgErr.Code == "42P05", pgErr.Code == "57P01":
			return true
		case strings.HasPrefix(pgErr.Code, "08"):
			return true
		}
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "prepared statement") &&
		(strings.Contains(msg, "does not exist") || strings.Contains(msg, "already exists")) {
		return true
	}
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Retry runs op, repeating it on transient errors up to p.MaxAttempts times with
// exponential backoff. The last error is returned once attempts run out.
func Retry[T any](ctx context.Context, p RetryPolicy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.InitialBackoff

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == attempts {
			break
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("transient database error, retrying")
		metrics.DBRetries.Inc()

		if p.Reset != nil {
			if rerr := p.Reset(); rerr != nil {
				log.Error().Err(rerr).Msg("failed to reset database connection")
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return zero, lastErr
}

// WithRetry runs op under DefaultRetryPolicy.
func WithRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	return Retry(ctx, DefaultRetryPolicy, op)
}

// Run executes fn against the package DB bound to ctx, retrying transient failures.
func Run(ctx context.Context, fn func(db *gorm.DB) error) error {
	_, err := WithRetry(ctx, func() (struct{}, error) {
		return struct{}{}, fn(DB.WithContext(ctx))
	})
	return err
}

// Ping checks the database through the retry wrapper.
func Ping(ctx context.Context) error {
	return Run(ctx, func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}
