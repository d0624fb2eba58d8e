package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/model"
)

type fakeExamStore struct {
	exam *model.Exam
}

func (s *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	if s.exam == nil || s.exam.ID != id {
		return nil, pgx.ErrNoRows
	}
	return s.exam, nil
}

// fakeResultStore sorts like the results table query: percentage desc,
// then total time asc, then submission time asc.
type fakeResultStore struct {
	results      []*model.Result
	rankErrFor   uuid.UUID
	updatedRanks map[uuid.UUID]int
	updatedCerts map[uuid.UUID]string
}

func newFakeResultStore(results ...*model.Result) *fakeResultStore {
	return &fakeResultStore{
		results:      results,
		updatedRanks: map[uuid.UUID]int{},
		updatedCerts: map[uuid.UUID]string{},
	}
}

func (s *fakeResultStore) ListByExamRanked(_ context.Context, examID uuid.UUID) ([]model.Result, error) {
	var out []model.Result
	for _, r := range s.results {
		if r.ExamID == examID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		if out[i].TotalTime != out[j].TotalTime {
			return out[i].TotalTime < out[j].TotalTime
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *fakeResultStore) UpdateRank(_ context.Context, id uuid.UUID, rank int) error {
	if id == s.rankErrFor {
		return errors.New("rank update refused")
	}
	s.updatedRanks[id] = rank
	for _, r := range s.results {
		if r.ID == id {
			r.Rank = &rank
		}
	}
	return nil
}

func (s *fakeResultStore) UpdateCertificate(_ context.Context, id uuid.UUID, url string) error {
	s.updatedCerts[id] = url
	for _, r := range s.results {
		if r.ID == id {
			u := url
			r.CertificateURL = &u
		}
	}
	return nil
}

type fakeEmployeeStore struct {
	employees map[int]*model.Employee
	errFor    int
}

func (s *fakeEmployeeStore) GetByID(_ context.Context, id int) (*model.Employee, error) {
	if id == s.errFor && id != 0 {
		return nil, errors.New("employee lookup failed")
	}
	emp, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return emp, nil
}

type fakeCertGenerator struct {
	calls int
	fail  bool
}

func (g *fakeCertGenerator) Generate(_ *model.Exam, emp *model.Employee, _ *model.Result) (string, error) {
	g.calls++
	if g.fail {
		return "", errors.New("render failed")
	}
	return fmt.Sprintf("/uploads/certificates/cert_%d.pdf", emp.ID), nil
}

func resultFor(examID uuid.UUID, employeeID int, percentage float64, totalTime int, submittedAt time.Time) *model.Result {
	return &model.Result{
		ID:          uuid.New(),
		ExamID:      examID,
		EmployeeID:  employeeID,
		Percentage:  percentage,
		TotalTime:   totalTime,
		SubmittedAt: submittedAt,
	}
}

func employees(ids ...int) *fakeEmployeeStore {
	s := &fakeEmployeeStore{employees: map[int]*model.Employee{}}
	for _, id := range ids {
		s.employees[id] = &model.Employee{ID: id, Name: fmt.Sprintf("Employee %d", id)}
	}
	return s
}

func TestRecompute_RankOrdering(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), Title: "Compliance"}
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	// Same percentage breaks on total time: employee 2 beats employee 1.
	resA := resultFor(exam.ID, 1, 90, 120, base)
	resB := resultFor(exam.ID, 2, 90, 100, base)
	resC := resultFor(exam.ID, 3, 70, 50, base)
	results := newFakeResultStore(resA, resB, resC)

	ranker := NewRanker(&fakeExamStore{exam: exam}, results, employees(1, 2, 3), &fakeCertGenerator{}, nil, zerolog.Nop())
	if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	want := map[uuid.UUID]int{resB.ID: 1, resA.ID: 2, resC.ID: 3}
	for id, rank := range want {
		if results.updatedRanks[id] != rank {
			t.Errorf("result %s rank = %d, want %d", id, results.updatedRanks[id], rank)
		}
	}
}

func TestRecompute_TiesBreakOnSubmissionTime(t *testing.T) {
	exam := &model.Exam{ID: uuid.New()}
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	early := resultFor(exam.ID, 1, 80, 300, base)
	late := resultFor(exam.ID, 2, 80, 300, base.Add(time.Minute))
	results := newFakeResultStore(late, early)

	ranker := NewRanker(&fakeExamStore{exam: exam}, results, employees(1, 2), &fakeCertGenerator{}, nil, zerolog.Nop())
	if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if results.updatedRanks[early.ID] != 1 || results.updatedRanks[late.ID] != 2 {
		t.Errorf("ranks = early %d, late %d; want 1, 2",
			results.updatedRanks[early.ID], results.updatedRanks[late.ID])
	}
}

func TestRecompute_CertificateGating(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		enabled    bool
		percentage float64
		wantCert   bool
	}{
		{name: "pass with certificates enabled", enabled: true, percentage: 50, wantCert: true},
		{name: "just below threshold", enabled: true, percentage: 49.9, wantCert: false},
		{name: "pass but certificates disabled", enabled: false, percentage: 95, wantCert: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := &model.Exam{ID: uuid.New(), CertificateEnabled: tc.enabled}
			res := resultFor(exam.ID, 1, tc.percentage, 100, base)
			results := newFakeResultStore(res)

			ranker := NewRanker(&fakeExamStore{exam: exam}, results, employees(1), &fakeCertGenerator{}, nil, zerolog.Nop())
			if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
				t.Fatalf("Recompute: %v", err)
			}

			_, issued := results.updatedCerts[res.ID]
			if issued != tc.wantCert {
				t.Errorf("certificate issued = %t, want %t", issued, tc.wantCert)
			}
		})
	}
}

func TestRecompute_SkipsAlreadyIssuedCertificates(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), CertificateEnabled: true}
	res := resultFor(exam.ID, 1, 90, 100, time.Now())
	existing := "/uploads/certificates/cert_1.pdf"
	res.CertificateURL = &existing
	results := newFakeResultStore(res)

	gen := &fakeCertGenerator{}
	ranker := NewRanker(&fakeExamStore{exam: exam}, results, employees(1), gen, nil, zerolog.Nop())
	if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if gen.calls != 0 {
		t.Errorf("generator called %d times for an already issued certificate, want 0", gen.calls)
	}
}

func TestRecompute_FailuresIsolatedPerResult(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), CertificateEnabled: true}
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	resA := resultFor(exam.ID, 1, 90, 100, base)
	resB := resultFor(exam.ID, 2, 80, 100, base)
	resC := resultFor(exam.ID, 3, 60, 100, base)
	results := newFakeResultStore(resA, resB, resC)
	results.rankErrFor = resB.ID

	emps := employees(1, 2, 3)
	emps.errFor = 3 // certificate path fails for employee 3

	ranker := NewRanker(&fakeExamStore{exam: exam}, results, emps, &fakeCertGenerator{}, nil, zerolog.Nop())
	if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
		t.Fatalf("Recompute must not fail on per-result errors: %v", err)
	}

	if results.updatedRanks[resA.ID] != 1 {
		t.Errorf("rank A = %d, want 1", results.updatedRanks[resA.ID])
	}
	if _, ok := results.updatedRanks[resB.ID]; ok {
		t.Error("rank B must not be written when its update fails")
	}
	if results.updatedRanks[resC.ID] != 3 {
		t.Errorf("rank C = %d, want 3 despite its certificate failing", results.updatedRanks[resC.ID])
	}

	if _, ok := results.updatedCerts[resA.ID]; !ok {
		t.Error("certificate A must still be issued")
	}
	if _, ok := results.updatedCerts[resC.ID]; ok {
		t.Error("certificate C must not be issued when the employee lookup fails")
	}
}

func TestRecompute_UnknownExam(t *testing.T) {
	ranker := NewRanker(&fakeExamStore{}, newFakeResultStore(), employees(), &fakeCertGenerator{}, nil, zerolog.Nop())
	if err := ranker.Recompute(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown exam")
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), CertificateEnabled: true}
	res := resultFor(exam.ID, 1, 90, 100, time.Now())
	results := newFakeResultStore(res)

	gen := &fakeCertGenerator{}
	ranker := NewRanker(&fakeExamStore{exam: exam}, results, employees(1), gen, nil, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err := ranker.Recompute(context.Background(), exam.ID); err != nil {
			t.Fatalf("Recompute #%d: %v", i+1, err)
		}
	}

	if results.updatedRanks[res.ID] != 1 {
		t.Errorf("rank = %d, want 1 after repeated sweeps", results.updatedRanks[res.ID])
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 across sweeps", gen.calls)
	}
}
