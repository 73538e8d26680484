package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Portfolio_APP_BackEnd/internal/domain"
)

const userColumns = `id, email, name, role, active, google_id, image,
	password_hash, password_salt, password_changed_at,
	reset_code_hash, reset_code_expires_at, reset_code_verified,
	created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, email, name string, passwordHash, passwordSalt []byte, role domain.Role) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, name, password_hash, password_salt, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, email, name, passwordHash, passwordSalt, role)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email, name string, image *string, googleID string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, name, image, google_id)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email) DO UPDATE
        SET google_id = EXCLUDED.google_id,
            image = COALESCE(user_account.image, EXCLUDED.image),
            updated_at = NOW()
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, email, name, image, googleID)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE email = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name *string, image *string) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET name = COALESCE($2, name),
            image = COALESCE($3, image),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, name, image)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ChangePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            password_changed_at = NOW(),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1 AND password_hash IS NULL
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt time.Time) error {
	const query = `
        UPDATE user_account
        SET reset_code_hash = $2,
            reset_code_expires_at = $3,
            reset_code_verified = FALSE,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, codeHash, expiresAt)
	return err
}

func (r *UserRepository) VerifyResetCode(ctx context.Context, id uuid.UUID, codeHash string, now time.Time) (bool, error) {
	const query = `
        UPDATE user_account
        SET reset_code_verified = TRUE,
            updated_at = NOW()
        WHERE id = $1 AND reset_code_hash = $2 AND reset_code_expires_at > $3
    `
	result, err := r.db.ExecContext(ctx, query, id, codeHash, now)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            password_changed_at = NOW(),
            reset_code_hash = NULL,
            reset_code_expires_at = NULL,
            reset_code_verified = FALSE,
            updated_at = NOW()
        WHERE id = $1 AND reset_code_verified = TRUE
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
