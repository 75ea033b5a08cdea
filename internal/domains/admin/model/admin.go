package model

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LoginRequest - POST /api/v1/admin/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Admin       *Admin    `json:"admin"`
}

// =====================================================
// ERRORS
// =====================================================

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrEmailExists        = errors.New("admin email already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

var adminErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrInvalidCredentials: {http.StatusUnauthorized, "Login failed", "Invalid email or password"},
	ErrAdminNotFound:      {http.StatusNotFound, "Admin not found", "The admin account does not exist"},
	ErrEmailExists:        {http.StatusConflict, "Email exists", "An admin with this email already exists"},
	ErrWeakPassword:       {http.StatusBadRequest, "Weak password", "Password must be at least 8 characters"},
}

// HandleAdminError writes the envelope for err and reports whether it did.
func HandleAdminError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	for target, cfg := range adminErrorMap {
		if errors.Is(err, target) {
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled admin error")
	response.InternalServerError(c, "Internal server error")
	return true
}
