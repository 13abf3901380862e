package sessionstore

import (
	"Eventra/internal/entity"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis instance named by REDIS_ADDRESS /
// REDIS_PASSWORD / REDIS_DB and stores session snapshots as JSON with
// a sliding TTL (SESSION_TTL_HOURS, default 24).
func NewRedis() Store {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	ttlHours, _ := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS"))
	if ttlHours <= 0 {
		ttlHours = 24
	}

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisStore{client: client, ttl: time.Duration(ttlHours) * time.Hour}
}

func sessionKey(id string) string {
	return "eventra:session:" + id
}

func (r *redisStore) GetOrCreate(ctx context.Context, id string) (*entity.Session, error) {
	session, err := r.Get(ctx, id)
	if err == nil {
		return session, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	session = entity.NewSession(id)
	if err := r.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *redisStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error loading session %s: %v", id, err))
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisStore) Save(ctx context.Context, session *entity.Session) error {
	session.LastActivity = time.Now()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), raw, r.ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error saving session %s: %v", session.ID, err))
		return err
	}
	return nil
}
