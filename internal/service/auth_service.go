// Package service holds the business logic between handlers and repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"blogapp/internal/config"
	"blogapp/internal/models"
	"blogapp/internal/observability"
	"blogapp/internal/repository"
	"blogapp/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const invalidCredentialsMessage = "No active account found with the given credentials"

// TokenClaims is the JWT payload for access and refresh tokens.
type TokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    uint   `json:"user_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenPair is returned by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	FullName  string `json:"full_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type AuthService struct {
	users repository.UserRepository
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg, now: time.Now}
}

// Register validates the payload, enforces password strength and creates the
// user with an empty profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Register")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if problems := validation.ValidatePassword(in.Password, in.Email, in.FullName); len(problems) > 0 {
		return nil, models.NewFieldValidationError("Validation failed", map[string][]string{
			"password": problems,
		})
	}

	username := models.EmailLocalPart(in.Email)
	taken, err := s.users.TakenField(ctx, in.Email, username)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if taken != "" {
		return nil, models.NewConflictError(taken, fmt.Sprintf("A user with that %s already exists.", taken))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Username: username,
		FullName: in.FullName,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user, &models.Profile{FullName: in.FullName}); err != nil {
		span.SetError(err)
		return nil, err
	}
	return user, nil
}

// IssueTokenPair checks credentials and returns fresh access and refresh tokens.
func (s *AuthService) IssueTokenPair(ctx context.Context, email, password string) (*TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, models.NewFieldValidationError("Validation failed", missingCredentialFields(email, password))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError(invalidCredentialsMessage)
	}

	access, err := s.sign(user, TokenTypeAccess, s.cfg.AccessTTL())
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.cfg.RefreshTTL())
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", models.NewUnauthorizedError("Token has wrong type")
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if models.IsNotFound(err) {
			return "", models.NewUnauthorizedError("User not found")
		}
		return "", err
	}
	return s.sign(user, TokenTypeAccess, s.cfg.AccessTTL())
}

// VerifyAccess validates an access token and returns its user id.
func (s *AuthService) VerifyAccess(token string) (uint, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	if claims.TokenType != TokenTypeAccess {
		return 0, models.NewUnauthorizedError("Token has wrong type")
	}
	return claims.UserID, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", models.NewInternalError(errors.New("JWT secret not configured"))
	}
	now := s.now()
	claims := TokenClaims{
		TokenType: tokenType,
		UserID:    user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Username:  user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWTAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

func (s *AuthService) parse(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithAudience(s.cfg.JWTAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Token is invalid or expired")
	}
	if claims.UserID == 0 {
		id, convErr := strconv.ParseUint(claims.Subject, 10, 32)
		if convErr != nil {
			return nil, models.NewUnauthorizedError("Token is invalid or expired")
		}
		claims.UserID = uint(id)
	}
	return claims, nil
}

func missingCredentialFields(email, password string) map[string][]string {
	fields := map[string][]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = []string{"This field is required."}
	}
	if password == "" {
		fields["password"] = []string{"This field is required."}
	}
	return fields
}
