package sispaa

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/report"
)

// stubReports guarda denúncias em memória e registra as transições de
// status aplicadas pelo worker. getErrs injeta falhas transitórias nas
// primeiras leituras.
type stubReports struct {
	mu      sync.Mutex
	reports map[string]*report.Report
	getErrs []error
}

func newStubReports(reps ...*report.Report) *stubReports {
	s := &stubReports{reports: make(map[string]*report.Report)}
	for _, rep := range reps {
		s.reports[rep.ReportID] = rep
	}
	return s
}

func (s *stubReports) GetByID(_ context.Context, reportID string) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.getErrs) > 0 {
		err := s.getErrs[0]
		s.getErrs = s.getErrs[1:]
		return nil, err
	}
	rep, ok := s.reports[reportID]
	if !ok {
		return nil, report.ErrNotFound
	}
	clone := *rep
	return &clone, nil
}

func (s *stubReports) Update(_ context.Context, reportID string, input report.UpdateInput) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[reportID]
	if !ok {
		return nil, report.ErrNotFound
	}
	if input.Status != nil {
		rep.Status = *input.Status
	}
	clone := *rep
	return &clone, nil
}

func (s *stubReports) status(reportID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[reportID].Status
}

type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	results []Result
}

func (s *stubSubmitter) SubmitReport(_ context.Context, _ *report.Report) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		return s.results[len(s.results)-1]
	}
	return s.results[idx]
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func pendingReport(id string) *report.Report {
	return &report.Report{ReportID: id, Status: report.StatusPending, PollutionType: "smoke", Sector: 1}
}

func TestDrainSuccessMarksSubmitted(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	reports := newStubReports(pendingReport("rep-1"))
	client := &stubSubmitter{results: []Result{{Success: true, ReferenceID: "SISPAA-1"}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 5, zerolog.Nop())
	if err := outbox.Enqueue(ctx, "rep-1"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if got := reports.status("rep-1"); got != report.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", got)
	}
	if _, err := store.LPop(ctx, queueKey); err == nil {
		t.Fatalf("expected empty queue after drain")
	}
}

func TestDrainFailureMarksFailedAndRequeues(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	reports := newStubReports(pendingReport("rep-1"))
	client := &stubSubmitter{results: []Result{{Error: "SISPAA API error: 502"}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 5, zerolog.Nop())
	_ = outbox.Enqueue(ctx, "rep-1")

	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if got := reports.status("rep-1"); got != report.StatusFailed {
		t.Fatalf("expected failed, got %s", got)
	}

	// item volta para a fila para o próximo ciclo
	queued, err := store.LPop(ctx, queueKey)
	if err != nil || queued != "rep-1" {
		t.Fatalf("expected rep-1 requeued, got %q err=%v", queued, err)
	}
}

func TestDrainStopsRetryingAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	reports := newStubReports(pendingReport("rep-1"))
	client := &stubSubmitter{results: []Result{{Error: "Network error communicating with SISPAA"}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 3, zerolog.Nop())
	_ = outbox.Enqueue(ctx, "rep-1")

	for i := 0; i < 5; i++ {
		if err := outbox.Drain(ctx); err != nil {
			t.Fatalf("drain %d failed: %v", i, err)
		}
	}

	if got := client.callCount(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if got := reports.status("rep-1"); got != report.StatusFailed {
		t.Fatalf("expected failed after exhausting attempts, got %s", got)
	}
	if _, err := store.LPop(ctx, queueKey); err == nil {
		t.Fatalf("expected queue empty after giving up")
	}
}

func TestDrainKeepsItemAfterTransientStoreError(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	reports := newStubReports(pendingReport("rep-1"))
	reports.getErrs = []error{errors.New("redis: connection reset")}
	client := &stubSubmitter{results: []Result{{Success: true, ReferenceID: "SISPAA-1"}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 5, zerolog.Nop())
	_ = outbox.Enqueue(ctx, "rep-1")

	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("expected no submission while the store errored")
	}
	if got := reports.status("rep-1"); got != report.StatusPending {
		t.Fatalf("expected still pending, got %s", got)
	}

	// o item sobreviveu ao erro transitório e o ciclo seguinte conclui
	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("second drain failed: %v", err)
	}
	if got := reports.status("rep-1"); got != report.StatusSubmitted {
		t.Fatalf("expected submitted after retry, got %s", got)
	}
	if _, err := store.LPop(ctx, queueKey); err == nil {
		t.Fatalf("expected empty queue after successful retry")
	}
}

func TestDrainSkipsTerminalReport(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	rep := pendingReport("rep-1")
	rep.Status = report.StatusSubmitted
	reports := newStubReports(rep)
	client := &stubSubmitter{results: []Result{{Success: true}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 5, zerolog.Nop())
	_ = outbox.Enqueue(ctx, "rep-1")

	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("expected terminal report to be skipped, got %d calls", client.callCount())
	}
}

func TestDrainDropsMissingReport(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	reports := newStubReports()
	client := &stubSubmitter{results: []Result{{Success: true}}}

	outbox := NewOutbox(store, reports, client, time.Minute, 5, zerolog.Nop())
	_ = outbox.Enqueue(ctx, "ghost")

	if err := outbox.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("expected no submission for missing report")
	}
	if _, err := store.LPop(ctx, queueKey); err == nil {
		t.Fatalf("expected queue empty after dropping missing report")
	}
}

func TestStartAndStop(t *testing.T) {
	store := kv.NewMemoryStore()
	reports := newStubReports(pendingReport("rep-1"))
	client := &stubSubmitter{results: []Result{{Success: true}}}

	outbox := NewOutbox(store, reports, client, 10*time.Millisecond, 5, zerolog.Nop())
	_ = outbox.Enqueue(context.Background(), "rep-1")

	outbox.Start(context.Background())
	outbox.Start(context.Background()) // segunda chamada é no-op

	deadline := time.After(2 * time.Second)
	for reports.status("rep-1") != report.StatusSubmitted {
		select {
		case <-deadline:
			t.Fatalf("worker did not process report in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	outbox.Stop()
}
