package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

const uniqueViolation = "23505"

// Postgres implements the repositories on top of pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.BookmarkRepo = (*Postgres)(nil)
var _ domain.UserRepo = (*Postgres)(nil)

// NewPostgres creates the DB adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// Save implements domain.BookmarkRepo. The existence check keeps the common
// path cheap; the unique index on (title, link) closes the read-then-write
// race, and a concurrent duplicate surfaces as AlreadyExists too.
func (p *Postgres) Save(ctx context.Context, title, link string) (domain.SaveOutcome, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	var exists bool
	err := p.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM saved_articles WHERE title = $1 AND link = $2)
`, title, link).Scan(&exists)
	metrics.ObserveNetworkRequest("postgres", "bookmark_exists", "saved_articles", start, err)
	if err != nil {
		return "", fmt.Errorf("bookmark existence check: %w", err)
	}
	if exists {
		return domain.OutcomeAlreadyExists, nil
	}

	start = time.Now()
	_, err = p.pool.Exec(ctx, `
INSERT INTO saved_articles (id, title, link, created_at) VALUES ($1, $2, $3, now())
`, uuid.New(), title, link)
	metrics.ObserveNetworkRequest("postgres", "bookmark_insert", "saved_articles", start, err)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.OutcomeAlreadyExists, nil
		}
		return "", fmt.Errorf("bookmark insert: %w", err)
	}
	return domain.OutcomeSaved, nil
}

// ListAll implements domain.BookmarkRepo.
func (p *Postgres) ListAll(ctx context.Context) ([]domain.Bookmark, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, title, link, created_at FROM saved_articles ORDER BY created_at DESC
`)
	metrics.ObserveNetworkRequest("postgres", "bookmark_list", "saved_articles", start, err)
	if err != nil {
		return nil, fmt.Errorf("bookmark list: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.Title, &b.Link, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("bookmark scan: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// UpsertByEmail implements domain.UserRepo.
func (p *Postgres) UpsertByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		email = domain.GuestEmail
	}
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	var user domain.UserProfile
	err := p.pool.QueryRow(ctx, `
INSERT INTO users (id, email) VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET updated_at = now()
RETURNING id, email, interests, created_at, updated_at
`, uuid.New(), email).Scan(&user.ID, &user.Email, &user.Interests, &user.CreatedAt, &user.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "user_upsert", "users", start, err)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("user upsert: %w", err)
	}
	return user, nil
}

// SetInterests implements domain.UserRepo.
func (p *Postgres) SetInterests(ctx context.Context, email string, interests []string) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	if interests == nil {
		interests = []string{}
	}
	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
UPDATE users SET interests = $2, updated_at = now() WHERE email = $1
`, strings.TrimSpace(strings.ToLower(email)), interests)
	metrics.ObserveNetworkRequest("postgres", "user_set_interests", "users", start, err)
	if err != nil {
		return fmt.Errorf("set interests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetByEmail implements domain.UserRepo.
func (p *Postgres) GetByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	var user domain.UserProfile
	err := p.pool.QueryRow(ctx, `
SELECT id, email, interests, created_at, updated_at FROM users WHERE email = $1
`, strings.TrimSpace(strings.ToLower(email))).Scan(&user.ID, &user.Email, &user.Interests, &user.CreatedAt, &user.UpdatedAt)
	metrics.ObserveNetworkRequest("postgres", "user_get", "users", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("user get: %w", err)
	}
	return user, nil
}
