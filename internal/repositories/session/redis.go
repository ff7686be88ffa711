package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hvaldez/triviabot/internal/models"
)

const (
	// Key prefix for Redis
	sessionKeyPrefix = "session:"

	// sessionTTL bounds how long a claimed slot can outlive a crashed
	// process
	sessionTTL = 2 * time.Hour
)

// ErrProcessActive is returned when the user already has a running process
var ErrProcessActive = errors.New("user already has an active process")

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		now:    time.Now,
	}, nil
}

// StartProcess atomically claims the user's session slot with SET NX,
// so concurrent commands from the same user cannot both start.
func (r *redisRepository) StartProcess(ctx context.Context, input *StartProcessInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sess := input.Session
	if sess.UserID == "" {
		return errors.New("user ID cannot be empty")
	}

	if sess.StartedAt.IsZero() {
		sess.StartedAt = r.now()
	}

	sessionJSON, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKeyPrefix + sess.UserID
	ok, err := r.client.SetNX(ctx, key, sessionJSON, sessionTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to claim session slot: %w", err)
	}

	if !ok {
		return ErrProcessActive
	}

	return nil
}

// GetSession retrieves a user's active session from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.UserSession, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	data, err := r.client.Get(ctx, sessionKeyPrefix+input.UserID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.UserSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// EndProcess releases the user's session slot
func (r *redisRepository) EndProcess(ctx context.Context, input *EndProcessInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, sessionKeyPrefix+input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}
