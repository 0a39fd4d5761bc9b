package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/models"
)

// Fixed keys, read once at boot and written on login, logout and every
// settings change.
const (
	userKey     = "edge:session:user"
	tokenKey    = "edge:session:token"
	settingsKey = "edge:session:settings"
)

const tokenLifetime = 30 * 24 * time.Hour

// Store persists the authenticated user and display settings in Redis. The
// stored user record is bound to a signed token; a record whose token does
// not verify is discarded rather than trusted.
type Store struct {
	client *redis.Client
	secret string
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore builds a session store signing tokens with the given secret.
func NewStore(client *redis.Client, secret string, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		secret: secret,
		logger: logger.With().Str("component", "session_store").Logger(),
		now:    time.Now,
	}
}

// SaveUser stores the user record alongside a fresh signed token.
func (s *Store) SaveUser(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	if err := s.client.Set(ctx, userKey, payload, tokenLifetime).Err(); err != nil {
		return fmt.Errorf("store session user: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey, token, tokenLifetime).Err(); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	return nil
}

// SaveSettings stores the display settings.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal session settings: %w", err)
	}

	if err := s.client.Set(ctx, settingsKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("store session settings: %w", err)
	}

	return nil
}

// LoadUser returns the persisted user when a valid session exists. A missing
// record, an expired token or a token whose subject does not match the stored
// user all read as "no session"; the stale keys are cleared.
func (s *Store) LoadUser(ctx context.Context) (models.User, bool, error) {
	payload, err := s.client.Get(ctx, userKey).Bytes()
	if err == redis.Nil {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("read session user: %w", err)
	}

	token, err := s.client.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		s.discard(ctx, "session user present without token")
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("read session token: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		s.discard(ctx, "unreadable session user record")
		return models.User{}, false, nil
	}

	subject, err := s.verifyToken(token)
	if err != nil || subject != user.ID {
		s.discard(ctx, "session token failed verification")
		return models.User{}, false, nil
	}

	return user, true, nil
}

// LoadSettings returns the persisted settings, falling back to defaults when
// nothing usable is stored.
func (s *Store) LoadSettings(ctx context.Context) (models.Settings, error) {
	payload, err := s.client.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("read session settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return models.DefaultSettings(), nil
	}

	return settings, nil
}

// Clear removes every session key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, userKey, tokenKey, settingsKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, reason string) {
	s.logger.Warn().Str("reason", reason).Msg("discarding persisted session")
	if err := s.client.Del(ctx, userKey, tokenKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear stale session keys")
	}
}

func (s *Store) signToken(userID models.ID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *Store) verifyToken(tokenString string) (models.ID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("invalid token claims")
	}

	return models.ID(claims.Subject), nil
}
