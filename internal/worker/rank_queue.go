package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ecsddagra-prog/training/internal/config"
)

// RankQueue is the producer side of the rank-recompute queue. The
// submission path enqueues an exam id here and returns immediately; the
// RankingWorker consumes it.
type RankQueue struct {
	rdb *redis.Client
}

// NewRankQueue creates a new RankQueue.
func NewRankQueue(rdb *redis.Client) *RankQueue {
	return &RankQueue{rdb: rdb}
}

// Enqueue schedules a rank recompute for one exam. Duplicate entries are
// fine: the recompute is a full idempotent sweep.
func (q *RankQueue) Enqueue(ctx context.Context, examID uuid.UUID) error {
	return q.rdb.RPush(ctx, config.WorkerKey.RankExamsQueue, examID.String()).Err()
}
