package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fitplate/backend/internal/models"
	"github.com/pageza/fitplate/backend/internal/types"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// lastSeenInterval throttles the last_seen_at write done on every request.
const lastSeenInterval = 5 * time.Minute

// AuthService validates access tokens issued by the identity provider and
// keeps a local user row for each subject.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// ValidateToken parses an HS256 token and returns its claims with UserID set
// from the subject.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	claims.UserID = userID

	return claims, nil
}

// GenerateToken signs claims with the shared secret. The API never issues
// tokens itself; this exists for local tooling and tests.
func (s *AuthService) GenerateToken(claims *types.TokenClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Subject = claims.UserID.String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// EnsureUser creates the local user and an empty profile the first time a
// subject is seen, and refreshes last_seen_at afterwards.
func (s *AuthService) EnsureUser(ctx context.Context, claims *types.TokenClaims) error {
	now := time.Now()

	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", claims.UserID).First(&user).Error
	if err == nil {
		if now.Sub(user.LastSeenAt) < lastSeenInterval && user.Email == claims.Email {
			return nil
		}
		return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"email":        claims.Email,
			"last_seen_at": now,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user = models.User{
			ID:         claims.UserID,
			Email:      claims.Email,
			LastSeenAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile := models.UserProfile{UserID: user.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		log.Printf("[AuthService] Provisioned user %s", user.ID)
		return nil
	})
}
