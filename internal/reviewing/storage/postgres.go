package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-sqlx/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/gaqzi/review-service/internal/reviewing"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps reviews in the reviews table, see migrations/.
type PostgresStore struct {
	db *sqlx.DB
}

// ConnectPostgres opens the database and migrates it to the latest schema.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate brings the schema up to date with the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("applied migration", "source", r.Source.Path, "duration", r.Duration)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type reviewRow struct {
	ID        string    `db:"id"`
	Rating    int       `db:"rating"`
	Title     string    `db:"title"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

func (row reviewRow) review(ctx context.Context) (reviewing.Review, error) {
	r, err := reviewing.New(ctx, reviewing.NewParams{
		ID:        row.ID,
		Rating:    row.Rating,
		Title:     row.Title,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt.UTC(),
	})
	if err != nil {
		return reviewing.Review{}, fmt.Errorf("stored review %q is invalid: %w", row.ID, err)
	}

	return r, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (reviewing.Review, bool, error) {
	var row reviewRow
	err := s.db.GetContext(ctx, &row, `SELECT id, rating, title, comment, created_at FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reviewing.Review{}, false, nil
		}
		return reviewing.Review{}, false, fmt.Errorf("failed to find review %q: %w", id, err)
	}

	r, err := row.review(ctx)
	if err != nil {
		return reviewing.Review{}, false, err
	}

	return r, true, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]reviewing.Review, error) {
	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, rating, title, comment, created_at FROM reviews`); err != nil {
		return nil, fmt.Errorf("failed to find all reviews: %w", err)
	}

	ret := make([]reviewing.Review, 0, len(rows))
	for _, row := range rows {
		r, err := row.review(ctx)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}

	return ret, nil
}

// Save stores created_at with microsecond precision, which is all TIMESTAMPTZ keeps,
// and returns the review as it was stored.
func (s *PostgresStore) Save(ctx context.Context, review reviewing.Review) (reviewing.Review, error) {
	if err := checkID(review.ID()); err != nil {
		return reviewing.Review{}, err
	}

	row := reviewRow{
		ID:        review.ID(),
		Rating:    review.Rating(),
		Title:     review.Title(),
		Comment:   review.Comment(),
		CreatedAt: review.CreatedAt().UTC().Truncate(time.Microsecond),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO reviews (id, rating, title, comment, created_at)
		VALUES (:id, :rating, :title, :comment, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			rating = EXCLUDED.rating,
			title = EXCLUDED.title,
			comment = EXCLUDED.comment,
			created_at = EXCLUDED.created_at`,
		row,
	)
	if err != nil {
		return reviewing.Review{}, fmt.Errorf("failed to save review %q: %w", review.ID(), err)
	}

	return row.review(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete review %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted reviews: %w", err)
	}

	return n > 0, nil
}

// DeleteAll empties the reviews table and returns how many reviews were removed.
func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all reviews: %w", err)
	}

	return res.RowsAffected()
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("failed to check if review %q exists: %w", id, err)
	}

	return exists, nil
}
