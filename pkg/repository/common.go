package repository

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feedimport/pkg/domain"
)

// withLockRetry runs fn with backoff while it fails on SQLite lock errors.
// Any other error stops the retries and is returned as is.
func withLockRetry(ctx context.Context, fn func() error) error {
	var fatal error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if err := fn(); err != nil {
			if isLockError(err) {
				return err // retry
			}
			fatal = err
		}
		return nil
	})
	if fatal != nil {
		return fatal
	}
	return err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// notesSQL is a JSON array of log lines for SQL operations
type notesSQL []string

// Value implements driver.Valuer, stored as TEXT so json_insert can append to it
func (n notesSQL) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(n))
	if err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (n *notesSQL) Scan(value interface{}) error {
	*n = notesSQL{}
	return scanJSON(value, (*[]string)(n))
}

// failedItemsSQL is a JSON array of rejected feed items
type failedItemsSQL []domain.FailedItem

// Value implements driver.Valuer
func (f failedItemsSQL) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]domain.FailedItem(f))
	if err != nil {
		return nil, fmt.Errorf("marshal failed items: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (f *failedItemsSQL) Scan(value interface{}) error {
	*f = failedItemsSQL{}
	return scanJSON(value, (*[]domain.FailedItem)(f))
}

func scanJSON(value, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}
