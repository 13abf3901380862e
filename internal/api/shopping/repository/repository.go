package shoppingRepository

import (
	"Eventra/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Catalog: &catalogRepository{q: sqlExecutor, log: r.log},

		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

// SearchHit is one scored catalog row; Rank preserves the position in
// the result ordering so downstream tie-breaks stay reproducible.
type SearchHit struct {
	Item  entity.CatalogItem
	Score float64
	Rank  int
}

type Client struct {
	Catalog interface {
		Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
	}

	Commit   func() error
	Rollback func() error
}

type catalogRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
