package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/config"
)

const (
	RankPollTimeout = 1 * time.Second
	RankRetryDelay  = 5 * time.Second
)

// RankingWorker consumes exam IDs from the rank queue and runs a full
// rank sweep for each. Queue items survive failures: a failed sweep is
// requeued so another attempt (or another instance) picks it up.
type RankingWorker struct {
	ranker *Ranker
	rdb    *redis.Client
	log    zerolog.Logger
}

func NewRankingWorker(ranker *Ranker, rdb *redis.Client, log zerolog.Logger) *RankingWorker {
	return &RankingWorker{
		ranker: ranker,
		rdb:    rdb,
		log:    log.With().Str("component", "ranking_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *RankingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RankingWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Draining rank queue...")
			w.drain()
			return

		default:
			item, err := w.rdb.BLPop(ctx, RankPollTimeout, config.WorkerKey.RankExamsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			w.process(ctx, item[1])
		}
	}
}

func (w *RankingWorker) process(ctx context.Context, raw string) {
	examID, err := uuid.Parse(raw)
	if err != nil {
		w.log.Error().Err(err).Str("item", raw).Msg("Invalid exam ID on rank queue, dropping")
		return
	}

	if err := w.ranker.Recompute(ctx, examID); err != nil {
		w.log.Error().Err(err).Str("exam_id", raw).Msg("Rank sweep failed — requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.RankExamsQueue, raw)
		time.Sleep(RankRetryDelay)
	}
}

// drain runs remaining queued sweeps with a fresh context so results
// submitted just before shutdown still get ranked.
func (w *RankingWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.RankExamsQueue).Result()
		if err != nil {
			if err != redis.Nil {
				w.log.Error().Err(err).Msg("Drain LPop error")
			}
			return
		}

		examID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if err := w.ranker.Recompute(ctx, examID); err != nil {
			w.log.Error().Err(err).Str("exam_id", raw).Msg("Drain sweep failed")
			return
		}
	}
}
