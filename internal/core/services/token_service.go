package services

import (
	"context"
	"fmt"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/middleware"
	"github.com/jdrojas/cobranza_app/internal/platform/config"
	"github.com/jdrojas/cobranza_app/internal/utils"
)

// tokenService validates operator credentials against the configured admin
// account and issues JWT session tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvc {
	return &tokenService{cfg: cfg}
}

// Ensure tokenService implements the portssvc.TokenSvc interface
var _ portssvc.TokenSvc = (*tokenService)(nil)

// Authenticate checks the operator's credentials and returns a signed JWT.
func (s *tokenService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if s.cfg.AdminPasswordHash == "" ||
		username != s.cfg.AdminUser ||
		!utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash) {
		middleware.GetLoggerFromCtx(ctx).Warn("Login rejected")
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(username, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
