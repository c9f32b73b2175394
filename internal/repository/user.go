package repository

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

const userColumns = `id, full_name, email, phone, avatar_src, avatar_alt, password`

func scanUser(row *sql.Row) (*entity.User, error) {
	user := &entity.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Phone,
		&user.Avatar.Src, &user.Avatar.Alt, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (full_name, email, phone, avatar_src, avatar_alt, password) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.FullName, user.Email, user.Phone,
		user.Avatar.Src, user.Avatar.Alt, user.Password)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `UPDATE users SET full_name = ?, email = ?, phone = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, user.FullName, user.Email, user.Phone, user.ID)
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE users SET password = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}
