package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Register(ctx context.Context, email, name, password string) (*model.User, error)
	// Login verifies credentials and lazily downgrades an expired plan.
	Login(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	subs  SubscriptionUseCase
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, subs SubscriptionUseCase, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, subs: subs, log: &l}
}

func (u *userUC) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	if len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if existing, err := u.users.FindByEmail(ctx, nil, email); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := model.NewUser("", email, name, string(hash))
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, nil, user); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := u.users.FindByEmail(ctx, nil, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u.subs.RefreshStatus(ctx, user)
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, nil, id)
}
