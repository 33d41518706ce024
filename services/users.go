package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/models"
)

// CachedUser is the slice of a user the auth middleware needs on every request.
type CachedUser struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UserCache keeps CachedUser records in Redis. A nil client disables caching.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

func userKey(id uint) string {
	return fmt.Sprintf("user:%d:data", id)
}

func (uc *UserCache) get(ctx context.Context, id uint) (*CachedUser, bool) {
	if uc == nil || uc.rdb == nil {
		return nil, false
	}
	data, err := uc.rdb.Get(ctx, userKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Uint("user", id).Msg("redis get failed")
		}
		return nil, false
	}
	var u CachedUser
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		log.Warn().Err(err).Uint("user", id).Msg("failed to unmarshal cached user")
		return nil, false
	}
	return &u, true
}

func (uc *UserCache) set(ctx context.Context, u *CachedUser) {
	if uc == nil || uc.rdb == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := uc.rdb.Set(ctx, userKey(u.ID), data, uc.ttl).Err(); err != nil {
		log.Error().Err(err).Uint("user", u.ID).Msg("redis set failed")
	}
}

// Invalidate drops the cached record so role changes apply on the next request.
func (uc *UserCache) Invalidate(ctx context.Context, id uint) {
	if uc == nil || uc.rdb == nil {
		return
	}
	if err := uc.rdb.Del(ctx, userKey(id)).Err(); err != nil {
		log.Error().Err(err).Uint("user", id).Msg("redis del failed")
	}
}

// Load returns the user from the cache, falling back to the database.
func (uc *UserCache) Load(ctx context.Context, id uint) (*CachedUser, error) {
	if u, ok := uc.get(ctx, id); ok {
		return u, nil
	}

	var user models.User
	err := models.Run(ctx, func(db *gorm.DB) error {
		return db.First(&user, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	cu := &CachedUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	uc.set(ctx, cu)
	return cu, nil
}
