package playergame

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
	gameKeyPrefix = "player_game:"

	// gameTTL bounds how long stale game state can survive a crashed
	// process
	gameTTL = 2 * time.Hour
)

// ErrGameNotFound is returned when no live game exists for the user
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis player game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player game repository
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
	}, nil
}

// SaveGame persists the live game state for a user
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	game := input.Game
	if game.UserID == "" {
		return errors.New("user ID cannot be empty")
	}

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	key := gameKeyPrefix + game.UserID
	if err := r.client.Set(ctx, key, gameJSON, gameTTL).Err(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves the live game state for a user
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.PlayerGame, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	data, err := r.client.Get(ctx, gameKeyPrefix+input.UserID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.PlayerGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// DeleteGame removes the live game state for a user
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, gameKeyPrefix+input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
