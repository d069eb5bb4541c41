package contact

import (
	"context"
	"database/sql"
	"errors"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) First(ctx context.Context) (*Info, error) {
	info := &Info{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, phone, email, address FROM contact_info ORDER BY id LIMIT 1`,
	).Scan(&info.ID, &info.Phone, &info.Email, &info.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (r *postgresRepo) Create(ctx context.Context, info *Info) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_info (id, phone, email, address) VALUES ($1,$2,$3,$4)`,
		info.ID, info.Phone, info.Email, info.Address)
	return err
}
