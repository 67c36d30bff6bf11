package service

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gobanhq/goban-backend/internal/entity"
	"github.com/gobanhq/goban-backend/internal/pkg"
)

// IdentityService resolves a connection credential into a participant
// identity exactly once, at the boundary. The rest of the core consumes the
// opaque ID plus capability tag and never branches on how it was issued.
type IdentityService interface {
	Resolve(token string) *entity.Player
}

type identityService struct {
	logger    *slog.Logger
	secretKey string
}

func NewIdentityService(logger *slog.Logger, secretKey string) IdentityService {
	return &identityService{
		logger:    logger.With("component", "identity"),
		secretKey: secretKey,
	}
}

// Resolve turns a valid HS256 account token into an account identity;
// anything else (including an empty token) becomes a fresh guest identity.
func (that *identityService) Resolve(token string) *entity.Player {
	log := that.logger.With("method", "Resolve")

	if token == "" {
		return newGuest()
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(that.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		log.Info("invalid account token, issuing guest identity", "error", err)
		return newGuest()
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		log.Info("account token has no subject, issuing guest identity")
		return newGuest()
	}

	return &entity.Player{ID: subject, Kind: entity.KindAccount}
}

func newGuest() *entity.Player {
	return &entity.Player{ID: pkg.GenerateNewSessionID(), Kind: entity.KindGuest}
}
