package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/evrental/evrental-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const vehicleStatusTTL = time.Hour

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func vehicleStatusKey(vehicleID uint) string {
	return fmt.Sprintf("vehicle:status:%d", vehicleID)
}

// CacheVehicleStatus stores a vehicle's current status after a committed
// transition. Best effort: callers ignore cache failures.
func CacheVehicleStatus(ctx context.Context, vehicleID uint, status models.VehicleStatus) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return RedisClient.Set(ctx, vehicleStatusKey(vehicleID), string(status), vehicleStatusTTL).Err()
}

// GetCachedVehicleStatus retrieves a vehicle's status from Redis. A cache
// miss or an invalid stored value is an error; callers fall back to the
// database.
func GetCachedVehicleStatus(ctx context.Context, vehicleID uint) (models.VehicleStatus, error) {
	if RedisClient == nil {
		return "", fmt.Errorf("redis not initialized")
	}
	val, err := RedisClient.Get(ctx, vehicleStatusKey(vehicleID)).Result()
	if err != nil {
		return "", err
	}
	status, ok := models.ParseVehicleStatus(val)
	if !ok {
		return "", fmt.Errorf("invalid cached vehicle status %q", val)
	}
	return status, nil
}

// InvalidateVehicleStatus drops a vehicle's cached status.
func InvalidateVehicleStatus(ctx context.Context, vehicleID uint) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return RedisClient.Del(ctx, vehicleStatusKey(vehicleID)).Err()
}
