package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const DefaultSessionCookie = "verifeye_session"

// AuthService verifies sessions issued by the external auth provider. Sessions are HS256
// JWTs whose subject is the user id; issuance exists only for tooling and tests.
type AuthService interface {
	VerifyToken(tokenString string) (uuid.UUID, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(userID uuid.UUID, ttl time.Duration) (string, error)
	SessionCookieName() string
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	cookieName   string
}

func NewAuthService(baseLog *logger.Logger, jwtSecretKey string, cookieName string) AuthService {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultSessionCookie
	}
	return &authService{
		log:          baseLog.With("service", "AuthService"),
		jwtSecretKey: jwtSecretKey,
		cookieName:   cookieName,
	}
}

func (as *authService) SessionCookieName() string { return as.cookieName }

func (as *authService) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	if as.jwtSecretKey == "" {
		return "", fmt.Errorf("AUTH_JWT_SECRET not configured")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("missing user id")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) VerifyToken(tokenString string) (uuid.UUID, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("missing session: %w", apierr.ErrUnauthorized)
	}
	if as.jwtSecretKey == "" {
		return uuid.Nil, fmt.Errorf("AUTH_JWT_SECRET not configured: %w", apierr.ErrUnauthorized)
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w: %w", apierr.ErrUnauthorized, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return uuid.Nil, fmt.Errorf("invalid or expired token: %w", apierr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid subject: %w", apierr.ErrUnauthorized)
	}
	return userID, nil
}

// SetContextFromToken attaches the verified caller to ctx. An empty token leaves ctx
// anonymous; a bad one is an error.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, nil
	}
	userID, err := as.VerifyToken(tokenString)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			as.log.Debug("Rejected session token", "error", err)
		}
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Token:  tokenString,
	}), nil
}
