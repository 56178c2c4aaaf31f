package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/pkg/hash"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type ProfileInput struct {
	Name    *string
	Surname *string
	Phone   *string
	Address *string
}

type AdminUserInput struct {
	ProfileInput
	Role   *string
	Active *bool
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) List(ctx context.Context, page repo.Page) ([]models.User, error) {
	return s.Repo.ListUsers(ctx, page)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(u, in); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate soft-disables the account; it is never deleted.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Active = false
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return err
	}
	publish(ctx, s.Events, events.TopicUsers, u.ID.String(), map[string]any{
		"type":   "user_deactivated",
		"userID": u.ID,
	})
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, caller *models.User, email, newPassword, confirm string) error {
	if normalizeEmail(email) != caller.Email {
		return fmt.Errorf("solo puede cambiar su propia contraseña: %w", ErrForbidden)
	}
	if newPassword != confirm {
		return fmt.Errorf("las contraseñas no coinciden: %w", ErrValidation)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres: %w", minPasswordLen, ErrValidation)
	}

	u, err := s.Get(ctx, caller.ID)
	if err != nil {
		return err
	}
	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = pwHash
	return s.Repo.SaveUser(ctx, u)
}

func (s *UserService) AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUserInput) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(u, in.ProfileInput); err != nil {
		return nil, err
	}
	if in.Role != nil {
		switch *in.Role {
		case models.RoleClient, models.RoleAdmin, models.RoleWarehouse:
			u.Role = *in.Role
		default:
			return nil, fmt.Errorf("tipo %q no es válido: %w", *in.Role, ErrValidation)
		}
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func applyProfile(u *models.User, in ProfileInput) error {
	set := func(dst *string, v *string, field string) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return fmt.Errorf("%s no puede estar vacío: %w", field, ErrValidation)
		}
		*dst = t
		return nil
	}
	if err := set(&u.Name, in.Name, "nombre"); err != nil {
		return err
	}
	if err := set(&u.Surname, in.Surname, "apellido"); err != nil {
		return err
	}
	if err := set(&u.Phone, in.Phone, "telefono"); err != nil {
		return err
	}
	return set(&u.Address, in.Address, "direccion")
}
