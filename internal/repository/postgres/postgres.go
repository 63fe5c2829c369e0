package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"

	"github.com/lib/pq"
)

// Store owns the connection pool and builds repositories on top of it, either
// directly on the pool or on a transaction.
type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
	repos       *repository.Repos
}

type Option func(*Store)

// WithLockTimeout bounds how long a transaction waits on a row lock before
// Postgres aborts it. Zero leaves the server default.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	s.repos = newRepos(db)
	return s
}

func newRepos(db repository.DBTX) *repository.Repos {
	return &repository.Repos{
		Users:    NewUserRepository(db),
		Tools:    NewToolRepository(db),
		Orders:   NewOrderRepository(db),
		Rentals:  NewRentalRepository(db),
		Payments: NewPaymentRepository(db),
		History:  NewHistoryRepository(db),
		Support:  NewSupportRepository(db),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Repos() *repository.Repos {
	return s.repos
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos *repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClassifyError(fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return ClassifyError(fmt.Errorf("setting lock timeout: %w", err))
		}
	}

	if err := fn(newRepos(tx)); err != nil {
		logger.Debug("Rolling back transaction", "error", err)
		return ClassifyError(err)
	}

	if err := tx.Commit(); err != nil {
		return ClassifyError(fmt.Errorf("committing transaction: %w", err))
	}
	return nil
}

// Postgres error codes that mean "gave up waiting" rather than "broken".
const (
	pqQueryCanceled     = "57014"
	pqLockNotAvailable  = "55P03"
	pqUniqueViolation   = "23505"
	pqSerializationFail = "40001"
	pqCheckViolation    = "23514"
)

// ClassifyError turns driver and context errors into domain errors. Errors
// that already carry a domain kind pass through untouched.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.KindStorageTimeout, err, "storage operation timed out")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqQueryCanceled, pqLockNotAvailable:
			return domain.WrapError(domain.KindStorageTimeout, err, "storage operation timed out")
		case pqUniqueViolation, pqSerializationFail:
			return domain.WrapError(domain.KindConflict, err, "conflicting update, retry the request")
		case pqCheckViolation:
			return domain.WrapError(domain.KindInvalidInput, err, "value violates a data constraint")
		}
	}
	return domain.WrapError(domain.KindStorageError, err, "storage failure")
}

// notFound maps sql.ErrNoRows to the given domain error.
func notFound(err error, nf *domain.Error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nf
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// expectOneRow reports nf when an update matched no row.
func expectOneRow(res sql.Result, nf error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return nf
	}
	return nil
}
