package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cinehub/internal/apperror"
	"cinehub/internal/auth"
	"cinehub/internal/config"
	"cinehub/internal/models"
	"cinehub/internal/repository"
)

var (
	ErrNameInUse          = apperror.Conflict("username already in use")
	ErrEmailInUse         = apperror.Conflict("email already in use")
	ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")
	ErrInvalidToken       = apperror.Unauthorized("invalid token")
)

// dummyHash keeps the bcrypt compare on the unknown-user path so login
// timing does not reveal whether an account exists.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (token string, user *models.User, err error)
	ValidateToken(tokenString string) (userID string, err error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry,
	}
}

// Register creates a new account. Email is required and must be free;
// when no username is supplied one is derived from the email's local
// part, disambiguated with a numeric suffix until it is unique.
func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailInUse
	}

	if username == "" {
		derived, err := s.deriveUsername(ctx, email)
		if err != nil {
			return nil, err
		}
		username = derived
	} else {
		if existing, err := s.userRepo.FindByUsername(ctx, username); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, ErrNameInUse
		}
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// deriveUsername takes the email local part and appends an increasing
// numeric suffix until the name is free: alice, alice1, alice2, ...
func (s *authService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	candidate := base
	for i := 1; ; i++ {
		existing, err := s.userRepo.FindByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// Login authenticates by username or email and returns a signed access
// token on success.
func (s *authService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, identifier)
	if err != nil {
		return "", nil, err
	}
	if user == nil && strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, identifier)
		if err != nil {
			return "", nil, err
		}
	}
	if user == nil {
		auth.VerifyPassword(dummyHash, password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.jwtExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token and returns the user id it
// carries.
func (s *authService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
