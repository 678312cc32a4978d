package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"quilltips-backend/internal/domains/author/model"
	"quilltips-backend/pkg/cache"
	"quilltips-backend/pkg/logger"
)

const (
	profileCacheTTL    = 10 * time.Minute
	profileKeyByID     = "author:id:%s"
	profileKeyBySlug   = "author:slug:%s"
	profilePatternByID = "author:*"
)

type postgresRepository struct {
	db    *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(db *pgxpool.Pool, cacheClient cache.Cache) Repository {
	return &postgresRepository{db: db, cache: cacheClient}
}

func (r *postgresRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO author_profiles (id, name, slug, bio, avatar_url, role, social_links, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.Name, profile.Slug, profile.Bio,
		profile.AvatarURL, profile.Role, profile.SocialLinks,
	).Scan(&profile.Version, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create author profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	cacheKey := fmt.Sprintf(profileKeyByID, id)
	var cached model.Profile
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	profile, err := r.scanOne(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, profile, profileCacheTTL); err != nil {
		logger.Warn("failed to cache author profile", map[string]interface{}{"id": id, "error": err.Error()})
	}
	return profile, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Profile, error) {
	cacheKey := fmt.Sprintf(profileKeyBySlug, slug)
	var cached model.Profile
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	profile, err := r.scanOne(ctx, `WHERE slug = $1`, slug)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, profile, profileCacheTTL); err != nil {
		logger.Warn("failed to cache author profile", map[string]interface{}{"slug": slug, "error": err.Error()})
	}
	return profile, nil
}

func (r *postgresRepository) scanOne(ctx context.Context, where string, arg interface{}) (*model.Profile, error) {
	query := `
		SELECT id, name, slug, bio, avatar_url, role, social_links, version, created_at, updated_at
		FROM author_profiles ` + where

	var p model.Profile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Bio, &p.AvatarURL,
		&p.Role, &p.SocialLinks, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get author profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, profile *model.Profile, expectedVersion int) error {
	query := `
		UPDATE author_profiles
		SET name = $1, bio = $2, social_links = $3,
		    version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.Name, profile.Bio, profile.SocialLinks,
		profile.ID, expectedVersion,
	).Scan(&profile.Version, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.classifyMissingRow(ctx, profile.ID)
		}
		return fmt.Errorf("failed to update author profile: %w", err)
	}

	r.invalidate(ctx, profile.ID, profile.Slug)
	return nil
}

// classifyMissingRow tells a stale version apart from a deleted profile.
func (r *postgresRepository) classifyMissingRow(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM author_profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check author profile: %w", err)
	}
	if exists {
		return model.ErrVersionConflict
	}
	return model.ErrProfileNotFound
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE author_profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2`,
		avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	r.invalidate(ctx, id, "")
	return nil
}

func (r *postgresRepository) Role(ctx context.Context, id uuid.UUID) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, `SELECT role FROM author_profiles WHERE id = $1`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get author role: %w", err)
	}
	return role, nil
}

func (r *postgresRepository) Search(ctx context.Context, filter *model.SearchFilter) ([]*model.Profile, int64, error) {
	filter.Normalize()

	countQuery := `SELECT COUNT(*) FROM author_profiles WHERE role = 'author'`
	listQuery := `
		SELECT id, name, slug, bio, avatar_url, role, social_links, version, created_at, updated_at
		FROM author_profiles WHERE role = 'author'`
	args := []interface{}{}

	if filter.Query != "" {
		countQuery += ` AND name ILIKE '%' || $1 || '%'`
		listQuery += ` AND name ILIKE '%' || $1 || '%'`
		args = append(args, filter.Query)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search authors: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Bio, &p.AvatarURL,
			&p.Role, &p.SocialLinks, &p.Version, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan author profile: %w", err)
		}
		profiles = append(profiles, &p)
	}
	return profiles, total, rows.Err()
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID, slug string) {
	keys := []string{fmt.Sprintf(profileKeyByID, id)}
	if slug != "" {
		keys = append(keys, fmt.Sprintf(profileKeyBySlug, slug))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("failed to invalidate author cache", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
