package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/pkg/hash"
	"github.com/capstore/online_shop/pkg/logging"
	"github.com/capstore/online_shop/pkg/tokens"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLen = 6

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    events.Publisher
}

type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Surname    string
	NationalID string
	Phone      string
	Address    string
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Email = normalizeEmail(in.Email)
	in.NationalID = strings.TrimSpace(in.NationalID)
	if in.Email == "" || in.Name == "" || in.Surname == "" || in.NationalID == "" || in.Phone == "" || in.Address == "" {
		return nil, fmt.Errorf("todos los campos son obligatorios: %w", ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("la contraseña debe tener al menos %d caracteres: %w", minPasswordLen, ErrValidation)
	}

	taken, err := s.Repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	taken, err = s.Repo.NationalIDExists(ctx, in.NationalID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNationalIDTaken
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		NationalID:   in.NationalID,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         models.RoleClient,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	l.Info("user_registered", "user_id", u.ID)
	publish(ctx, s.Events, events.TopicUsers, u.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": u.ID,
		"email":  u.Email,
	})
	return res, nil
}

// Login checks the account state before the password so a disabled
// account is reported even with a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("correo y contraseña son obligatorios: %w", ErrValidation)
	}

	u, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrAccountDisabled
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TopicUsers, u.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": u.ID,
	})
	return res, nil
}

// ResolveToken maps a bearer token to its active user.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := tokens.AccessClaimsFromToken(raw, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", ErrUnauthorized)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", ErrUnauthorized)
	}

	u, err := s.Repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("usuario del token no existe: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	tok, exp, err := tokens.NewAccessToken(u.ID.String(), s.TokenTTL, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: u, Token: tok, ExpiresAt: exp}, nil
}
