package ticketid

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const reservationPrefix = "streamline:ticket-id:"

// RedisReserver claims candidates with SETNX so two API instances never hand
// out the same id between the existence check and the insert.
type RedisReserver struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisReserver builds a reserver; ttl bounds how long a claim outlives a failed insert.
func NewRedisReserver(client redis.Cmdable, ttl time.Duration) *RedisReserver {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisReserver{client: client, ttl: ttl}
}

// Reserve reports whether this caller won the claim on ticketID.
func (r *RedisReserver) Reserve(ctx context.Context, ticketID int) (bool, error) {
	return r.client.SetNX(ctx, reservationKey(ticketID), "1", r.ttl).Result()
}

func reservationKey(ticketID int) string {
	return reservationPrefix + strconv.Itoa(ticketID)
}
