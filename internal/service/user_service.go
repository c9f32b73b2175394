package service

import (
	"context"
	"errors"
	"os"
	"time"

	"marketplace/internal/entity"
	"marketplace/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var userLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const tokenTTL = 24 * time.Hour

// UserStore is the profile persistence behind auth and profile CRUD.
type UserStore interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type JwtCustomClaims struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserService signs users up and in, issues JWT session tokens backed
// by redis, and serves profile reads and updates.
type UserService struct {
	repo   UserStore
	rdb    *redis.Client
	secret []byte
}

func NewUserService(repo UserStore, rdb *redis.Client, secret string) *UserService {
	return &UserService{repo: repo, rdb: rdb, secret: []byte(secret)}
}

// Register creates a user with a bcrypt password hash and signs them in.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (string, error) {
	if email == "" {
		return "", newValidationError("email", "Email is required.")
	}
	if len(password) < 6 {
		return "", newValidationError("password", "Password must be at least 6 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &entity.User{FullName: fullName, Email: email, Password: string(hash)}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		userLogger.Error().Err(err).Msg("Error creating user")
		return "", err
	}

	return s.issueToken(ctx, created)
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	return s.issueToken(ctx, user)
}

func (s *UserService) issueToken(ctx context.Context, user *entity.User) (string, error) {
	claims := &JwtCustomClaims{
		UserID: user.ID,
		Name:   user.FullName,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(user.Email), signed, tokenTTL).Err(); err != nil {
			return "", err
		}
	}
	return signed, nil
}

// Logout drops the stored session token.
func (s *UserService) Logout(ctx context.Context, email string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(email)).Err()
}

// GetProfile returns the acting user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile writes the editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, fullName, email, phone string) (*entity.User, error) {
	if email == "" {
		return nil, newValidationError("email", "Email is required.")
	}
	return s.repo.UpdateProfile(ctx, &entity.User{ID: userID, FullName: fullName, Email: email, Phone: phone})
}

// ChangePassword verifies the current password before storing the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID int, current, replacement string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrUnauthorized
	}
	if len(replacement) < 6 {
		return newValidationError("password", "Password must be at least 6 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(replacement), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

func sessionKey(email string) string {
	return "session:" + email
}
