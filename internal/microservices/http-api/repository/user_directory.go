package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	userIDsKey    = "users:ids"
	userIDsGenKey = "users:ids:gen"
)

// fillScript writes the set only if no registration happened since the
// caller read the generation, so a stale postgres read is never cached.
// KEYS: [1]=set, [2]=generation. ARGV: [1]=generation seen, [2]=ttl ms, [3..]=ids
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SADD', KEYS[1], unpack(ARGV, 3))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// invalidateScript bumps the generation and drops the set in one step.
var invalidateScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
return redis.call('DEL', KEYS[1])
`)

// CachedUserDirectory answers "who else exists" for broadcast fan-out from a
// redis set, refilling it from postgres on a miss. A nil client or any redis
// error falls through to the database.
type CachedUserDirectory struct {
	users  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCachedUserDirectory(users UserRepository, client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *CachedUserDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedUserDirectory{users: users, client: client, ttl: ttl, logger: logger}
}

func (d *CachedUserDirectory) ListUserIDsExcept(ctx context.Context, userID string) ([]string, error) {
	if d.client == nil {
		return d.users.ListUserIDsExcept(ctx, userID)
	}

	ids, err := d.client.SMembers(ctx, userIDsKey).Result()
	if err != nil {
		d.logger.WithError(err).Warn("user_cache_read_failed")
		return d.users.ListUserIDsExcept(ctx, userID)
	}
	if len(ids) > 0 {
		return without(ids, userID), nil
	}

	// the generation must be read before postgres
	gen, err := d.generation(ctx)
	if err != nil {
		d.logger.WithError(err).Warn("user_cache_read_failed")
		return d.users.ListUserIDsExcept(ctx, userID)
	}
	ids, err = d.users.ListAllIDs(ctx)
	if err != nil {
		return nil, err
	}
	d.fill(ctx, gen, ids)
	return without(ids, userID), nil
}

// Invalidate drops the cached set after a registration. A refill that
// started before the call is discarded.
func (d *CachedUserDirectory) Invalidate(ctx context.Context) {
	if d.client == nil {
		return
	}
	if err := invalidateScript.Run(ctx, d.client, []string{userIDsKey, userIDsGenKey}).Err(); err != nil {
		d.logger.WithError(err).Warn("user_cache_invalidate_failed")
	}
}

func (d *CachedUserDirectory) generation(ctx context.Context) (string, error) {
	gen, err := d.client.Get(ctx, userIDsGenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (d *CachedUserDirectory) fill(ctx context.Context, gen string, ids []string) {
	if len(ids) == 0 {
		return
	}
	args := make([]any, 0, len(ids)+2)
	args = append(args, gen, d.ttl.Milliseconds())
	for _, id := range ids {
		args = append(args, id)
	}

	stored, err := fillScript.Run(ctx, d.client, []string{userIDsKey, userIDsGenKey}, args...).Int()
	if err != nil {
		d.logger.WithError(err).Warn("user_cache_fill_failed")
		return
	}
	if stored == 0 {
		d.logger.Debug("user_cache_fill_skipped_stale")
	}
}

func without(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
