package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/coreybb/quill/models"
	"github.com/coreybb/quill/webutil"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL   = 24 * time.Hour
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything longer
	minSecretBytes    = 32
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = fmt.Errorf("password must be between %d and %d bytes", minPasswordLength, maxPasswordBytes)
)

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordBytes {
		return ErrWeakPassword
	}
	return nil
}

// Claims represents JWT claims. RegisteredClaims.ID carries the jti used for revocation.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenStore remembers revoked token IDs until the tokens would have expired anyway.
type TokenStore struct {
	revoked *cache.Cache
}

func NewTokenStore() *TokenStore {
	return &TokenStore{revoked: cache.New(DefaultTokenTTL, 10*time.Minute)}
}

func (s *TokenStore) Revoke(jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	s.revoked.Set(jti, struct{}{}, ttl)
}

func (s *TokenStore) IsRevoked(jti string) bool {
	_, found := s.revoked.Get(jti)
	return found
}

// Manager issues and validates HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  *TokenStore
}

// NewManager falls back to a random per-process secret when secret is empty, which
// invalidates every session on restart.
func NewManager(secret string, ttl time.Duration, store *TokenStore) (*Manager, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if store == nil {
		store = NewTokenStore()
	}
	key := []byte(secret)
	if len(key) == 0 {
		random, err := webutil.GenerateRandomToken(minSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		log.Println("WARNING: JWT_SECRET not set. Using a random secret; sessions will not survive a restart.")
		key = []byte(random)
	} else if len(key) < minSecretBytes {
		log.Printf("WARNING: JWT_SECRET is shorter than %d bytes.", minSecretBytes)
	}
	return &Manager{secret: key, ttl: ttl, store: store}, nil
}

// Issue signs a token for user and returns it with its expiry.
func (m *Manager) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate parses a token and rejects bad signatures, expired tokens and revoked ids.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if m.store.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: token has been revoked", ErrInvalidToken)
	}
	return claims, nil
}

// Revoke invalidates the token described by claims for the rest of its lifetime.
func (m *Manager) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiresAt := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	m.store.Revoke(claims.ID, expiresAt)
}

func (m *Manager) TTL() time.Duration { return m.ttl }
