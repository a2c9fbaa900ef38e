package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/user"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
)

const userColumns = `uid, first_name, last_name, email, phone, address, is_admin, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{db: conn.GetDB()}
}

func (r *UserRepository) GetProfile(ctx context.Context, uid string) (*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "users", query, uid)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

// SaveProfile merges the editable fields. is_admin is never written here.
func (r *UserRepository) SaveProfile(ctx context.Context, p *user.Profile) error {
	query := `
		INSERT INTO users (uid, first_name, last_name, email, phone, address, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			updated_at = EXCLUDED.updated_at
	`

	_, err := monitoring.InstrumentExec(ctx, r.db, "UPSERT", "users", query,
		p.UID, p.FirstName, p.LastName, p.Email, p.Phone, p.Address, p.UpdatedAt,
	)
	return err
}

func (r *UserRepository) SetAdmin(ctx context.Context, uid string, admin bool) error {
	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "users",
		`UPDATE users SET is_admin = $2 WHERE uid = $1`, uid, admin)
	if err != nil {
		return err
	}
	return expectOneRow(result, domainErrors.ErrUserNotFound)
}

func (r *UserRepository) ListProfiles(ctx context.Context) ([]*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY uid`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "users", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*user.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(s scanner) (*user.Profile, error) {
	var p user.Profile
	err := s.Scan(&p.UID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address, &p.IsAdmin, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
