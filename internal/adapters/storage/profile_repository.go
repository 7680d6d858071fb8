package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// profileRepository implements ports.ProfileRepository using a single row.
type profileRepository struct {
	db *sql.DB
}

func newProfileRepository(db *sql.DB) ports.ProfileRepository {
	return &profileRepository{db: db}
}

// Get returns the profile, inserting the level 1 row on first use.
func (r *profileRepository) Get(ctx context.Context) (*domain.Profile, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO profile (id, total_xp, level) VALUES (1, 0, 1)`,
	); err != nil {
		return nil, fmt.Errorf("failed to initialise profile: %w", err)
	}

	var p domain.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT total_xp, level FROM profile WHERE id = 1`,
	).Scan(&p.TotalXP, &p.Level)
	if err == sql.ErrNoRows {
		return &domain.Profile{Level: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// Update stores the profile.
func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, total_xp, level) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET total_xp = excluded.total_xp, level = excluded.level
	`, p.TotalXP, p.Level)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
