package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"sunkissed-backend/internal/domains/admin/model"
	"sunkissed-backend/internal/domains/admin/repository"
	"sunkissed-backend/pkg/jwt"
)

const defaultBcryptCost = 12

// TokenIssuer is satisfied by *jwt.Manager.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
}

type ServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context, id string) (*model.Admin, error)
	// SeedAdmin creates the first admin when none exist. It is a no-op
	// otherwise or when email is empty.
	SeedAdmin(ctx context.Context, email, password string) error
}

type AdminService struct {
	repo     repository.Repository
	tokens   TokenIssuer
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

func NewService(repo repository.Repository, tokens TokenIssuer, tokenTTL time.Duration) *AdminService {
	return &AdminService{
		repo:     repo,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		cost:     defaultBcryptCost,
		now:      time.Now,
	}
}

func (s *AdminService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrAdminNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", req.Email).Msg("admin login rejected")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(admin.ID.String(), admin.Email, jwt.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		log.Warn().Err(err).Str("admin_id", admin.ID.String()).Msg("failed to record admin login")
	}

	log.Info().Str("admin_id", admin.ID.String()).Msg("admin logged in")
	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.tokenTTL),
		Admin:       admin,
	}, nil
}

func (s *AdminService) Me(ctx context.Context, id string) (*model.Admin, error) {
	adminID, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrAdminNotFound
	}
	return s.repo.FindByID(ctx, adminID)
}

func (s *AdminService) SeedAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if len(password) < 8 {
		return model.ErrWeakPassword
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Email: email, PasswordHash: string(hash), Name: "Administrator"}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("seeded initial admin account")
	return nil
}
