package auth

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// User 账户
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Repo 用户存取
type Repo struct {
	DB *sql.DB
}

// NewRepo 创建用户存取
func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// CreateUser 创建用户
func (r *Repo) CreateUser(u User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByEmail 按邮箱查找用户，未找到返回 nil
func (r *Repo) GetByEmail(email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRow(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE LOWER(email) = ?
	`, email)

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by email: %w", err)
	}
	return &u, nil
}

// GetByUsername 按用户名查找用户，未找到返回 nil
func (r *Repo) GetByUsername(username string) (*User, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRow(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username)

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by username: %w", err)
	}
	return &u, nil
}

// GetByID 按 ID 查找用户，未找到返回 nil
func (r *Repo) GetByID(id string) (*User, error) {
	row := r.DB.QueryRow(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id)

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &u, nil
}
