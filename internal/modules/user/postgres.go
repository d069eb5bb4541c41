package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, country,
	avatar_url, is_active, is_superuser, created_at, updated_at`

func scanUser(scan func(...interface{}) error) (*User, error) {
	user := &User{}
	err := scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Country,
		&user.AvatarURL,
		&user.IsActive,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, country, avatar_url, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Country, user.AvatarURL, user.IsActive, user.IsSuperuser,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, parsedID).Scan)
}

func (r *postgresRepository) Activate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, user *User) error {
	return r.db.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, country = $4, avatar_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		user.FirstName, user.LastName, user.Phone, user.Country, user.AvatarURL, user.ID,
	).Scan(&user.UpdatedAt)
}

func (r *postgresRepository) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// HasPermission unions the permission sets of every role the user belongs to.
func (r *postgresRepository) HasPermission(ctx context.Context, id uuid.UUID, perm access.Permission) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT u.is_active AND (
			u.is_superuser OR EXISTS (
				SELECT 1
				FROM user_roles ur
				JOIN role_permissions rp ON rp.role_id = ur.role_id
				WHERE ur.user_id = u.id AND rp.permission = $2
			)
		)
		FROM users u
		WHERE u.id = $1`, id, string(perm)).Scan(&ok)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check permission %s: %w", perm, err)
	}
	return ok, nil
}

func (r *postgresRepository) EnsureRole(ctx context.Context, name string, perms []access.Permission) (*Role, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	role := &Role{Name: name}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO roles (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, uuid.New(), name).Scan(&role.ID)
	if err != nil {
		return nil, fmt.Errorf("upsert role %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, role.ID); err != nil {
		return nil, fmt.Errorf("reset role permissions: %w", err)
	}
	for _, p := range perms {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO permissions (codename, description) VALUES ($1, $2)
			ON CONFLICT (codename) DO UPDATE SET description = EXCLUDED.description`,
			string(p), access.Permissions[p]); err != nil {
			return nil, fmt.Errorf("upsert permission %s: %w", p, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`,
			role.ID, string(p)); err != nil {
			return nil, fmt.Errorf("grant %s to %s: %w", p, name, err)
		}
		role.Permissions = append(role.Permissions, string(p))
	}
	return role, tx.Commit()
}

func (r *postgresRepository) AddToRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING`, userID, roleName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either already a member or the role does not exist.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, roleName).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("role %q: %w", roleName, sql.ErrNoRows)
		}
	}
	return nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
