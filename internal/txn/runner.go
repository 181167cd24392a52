package txn

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
)

// Runner is the shared transaction boundary for all multi-document writes.
// The body is re-executed when the store reports a serialization or deadlock
// conflict, so it must stay free of side effects outside the write set.
type Runner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

const (
	maxAttempts  = 3
	retryBackoff = 25 * time.Millisecond
)

type gormRunner struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormRunner(db *gorm.DB, baseLog *logger.Logger) Runner {
	return &gormRunner{db: db, log: baseLog.With("component", "TxRunner")}
}

func (r *gormRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("transaction runner has nil db")
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx)
		})
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt < maxAttempts {
			r.log.Debug("Retrying conflicting transaction", "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
	}
	return err
}

// IsRetryable reports whether the store rejected a commit for a reason a
// re-execution can resolve.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "40001", "40P01", "55P03":
			return true // serialization/deadlock/lock_not_available
		}
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"):
		return true
	default:
		return false
	}
}
