package service

import (
	"context"
	"fmt"

	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/domain"
	"github.com/takatama/bottle-store/pkg/utils"
)

// dummyHash is compared against when the email is unknown, so the unknown
// and wrong-password paths cost the same. bcrypt of an unguessable value.
var dummyHash = utils.HashPassword("bottle-store-dummy-password")

type AuthService struct {
	users domain.UserRepository
}

func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate returns the user's identity on an email/password match and
// (nil, nil) on any mismatch. Callers surface one generic failure message;
// nothing here reveals whether the email exists.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*session.Identity, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		utils.CheckPassword(password, dummyHash)
		return nil, nil
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, nil
	}
	return &session.Identity{UserID: u.ID, Nickname: u.Nickname}, nil
}
