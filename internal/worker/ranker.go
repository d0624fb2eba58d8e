package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/model"
)

// Store contracts for the rank sweep. The repository package satisfies
// them; tests substitute in-memory fakes.

type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

type ResultStore interface {
	ListByExamRanked(ctx context.Context, examID uuid.UUID) ([]model.Result, error)
	UpdateRank(ctx context.Context, id uuid.UUID, rank int) error
	UpdateCertificate(ctx context.Context, id uuid.UUID, certificateURL string) error
}

type EmployeeStore interface {
	GetByID(ctx context.Context, id int) (*model.Employee, error)
}

// CertificateGenerator renders a certificate artifact and returns its
// stored reference.
type CertificateGenerator interface {
	Generate(exam *model.Exam, emp *model.Employee, res *model.Result) (string, error)
}

// RankUpdateEvent is published on the exam's rank-updates channel after
// each completed sweep, for live monitor consumers.
type RankUpdateEvent struct {
	ExamID     uuid.UUID `json:"exam_id"`
	Ranked     int       `json:"ranked"`
	ComputedAt time.Time `json:"computed_at"`
}

// Ranker recomputes ranks and issues certificates for one exam at a time.
// Each sweep is a full recompute from scratch, so re-running it for the
// same exam at any point is safe and order-independent.
type Ranker struct {
	exams     ExamStore
	results   ResultStore
	employees EmployeeStore
	certs     CertificateGenerator
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewRanker creates a new Ranker. rdb may be nil, in which case sweep
// events are not published.
func NewRanker(
	exams ExamStore,
	results ResultStore,
	employees EmployeeStore,
	certs CertificateGenerator,
	rdb *redis.Client,
	log zerolog.Logger,
) *Ranker {
	return &Ranker{
		exams:     exams,
		results:   results,
		employees: employees,
		certs:     certs,
		rdb:       rdb,
		log:       log.With().Str("component", "ranker").Logger(),
	}
}

// Recompute assigns 1-based ranks to every result of the exam in
// (percentage desc, total_time asc, submitted_at asc) order, overwriting
// whatever was there, and issues certificates to newly eligible results.
//
// Rank writes and certificate writes are independent units of work: a
// failure on one result is logged and the sweep continues with the rest.
func (r *Ranker) Recompute(ctx context.Context, examID uuid.UUID) error {
	exam, err := r.exams.GetByID(ctx, examID)
	if err != nil {
		return fmt.Errorf("get exam: %w", err)
	}

	results, err := r.results.ListByExamRanked(ctx, examID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	ranked := 0
	for i := range results {
		res := &results[i]
		rank := i + 1

		if err := r.results.UpdateRank(ctx, res.ID, rank); err != nil {
			r.log.Error().Err(err).
				Str("result_id", res.ID.String()).
				Int("rank", rank).
				Msg("Rank update failed, continuing sweep")
			continue
		}
		ranked++

		if err := r.maybeIssueCertificate(ctx, exam, res); err != nil {
			r.log.Error().Err(err).
				Str("result_id", res.ID.String()).
				Int("employee_id", res.EmployeeID).
				Msg("Certificate issuance failed, continuing sweep")
		}
	}

	r.publish(ctx, examID, ranked)

	r.log.Info().
		Str("exam_id", examID.String()).
		Int("results", len(results)).
		Int("ranked", ranked).
		Msg("Rank sweep complete")
	return nil
}

// maybeIssueCertificate issues a certificate when the exam has them
// enabled, the result meets the passing threshold, and none was issued
// before. Re-sweeps skip results that already hold a reference.
func (r *Ranker) maybeIssueCertificate(ctx context.Context, exam *model.Exam, res *model.Result) error {
	if !exam.CertificateEnabled || res.CertificateURL != nil || res.Percentage < config.CertPassThreshold {
		return nil
	}

	emp, err := r.employees.GetByID(ctx, res.EmployeeID)
	if err != nil {
		return fmt.Errorf("get employee: %w", err)
	}

	ref, err := r.certs.Generate(exam, emp, res)
	if err != nil {
		return fmt.Errorf("generate certificate: %w", err)
	}

	if err := r.results.UpdateCertificate(ctx, res.ID, ref); err != nil {
		return fmt.Errorf("store certificate reference: %w", err)
	}

	res.CertificateURL = &ref
	return nil
}

func (r *Ranker) publish(ctx context.Context, examID uuid.UUID, ranked int) {
	if r.rdb == nil {
		return
	}
	event := RankUpdateEvent{ExamID: examID, Ranked: ranked, ComputedAt: time.Now()}
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := r.rdb.Publish(ctx, config.CacheKey.RankUpdatesChannel(examID.String()), raw).Err(); err != nil {
		r.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Rank event publish failed")
	}
}
