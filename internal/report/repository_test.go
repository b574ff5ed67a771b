package report

import (
	"context"
	"errors"
	"testing"

	"github.com/gestaozabele/lapor/internal/kv"
)

func strPtr(s string) *string { return &s }

func TestCreateAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	rep, err := repo.Create(ctx, CreateInput{
		IPAddress:     "203.0.113.9",
		PollutionType: "smoke",
		Sector:        2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if rep.ReportID == "" {
		t.Fatalf("expected generated report_id")
	}
	if rep.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", rep.Status)
	}
	if rep.Timestamp == "" || rep.CreatedAt == "" || rep.UpdatedAt == "" {
		t.Fatalf("expected timestamps to be filled")
	}

	got, err := repo.GetByID(ctx, rep.ReportID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PollutionType != "smoke" || got.Sector != 2 {
		t.Fatalf("unexpected roundtrip: %+v", got)
	}
}

func TestGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	older, err := repo.Create(ctx, CreateInput{
		Timestamp:     "2026-08-01T10:00:00.000Z",
		PollutionType: "noise",
		Sector:        1,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	newer, err := repo.Create(ctx, CreateInput{
		Timestamp:     "2026-08-02T10:00:00.000Z",
		PollutionType: "smoke",
		Sector:        1,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	all, err := repo.GetAll(ctx, 10, 0)
	if err != nil {
		t.Fatalf("getall failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
	if all[0].ReportID != newer.ReportID || all[1].ReportID != older.ReportID {
		t.Fatalf("expected newest first, got %s then %s", all[0].ReportID, all[1].ReportID)
	}

	page, err := repo.GetAll(ctx, 1, 1)
	if err != nil {
		t.Fatalf("getall offset failed: %v", err)
	}
	if len(page) != 1 || page[0].ReportID != older.ReportID {
		t.Fatalf("expected offset page with older report, got %+v", page)
	}
}

func TestGetBySectorAndUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	userID := "user-1"
	if _, err := repo.Create(ctx, CreateInput{PollutionType: "smoke", Sector: 1, UserID: &userID}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(ctx, CreateInput{PollutionType: "noise", Sector: 2}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	bySector, err := repo.GetBySector(ctx, 1, 10)
	if err != nil {
		t.Fatalf("getbysector failed: %v", err)
	}
	if len(bySector) != 1 || bySector[0].PollutionType != "smoke" {
		t.Fatalf("unexpected sector result: %+v", bySector)
	}

	byUser, err := repo.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("getbyuser failed: %v", err)
	}
	if len(byUser) != 1 || byUser[0].UserID == nil || *byUser[0].UserID != userID {
		t.Fatalf("unexpected user result: %+v", byUser)
	}

	if anon, _ := repo.GetByUser(ctx, "unknown", 10); len(anon) != 0 {
		t.Fatalf("expected no reports for unknown user, got %d", len(anon))
	}
}

func TestGetAllSkipsOrphanIndexEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewRepository(store)

	kept, err := repo.Create(ctx, CreateInput{Timestamp: "2026-08-01T10:00:00.000Z", PollutionType: "smoke", Sector: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	removed, err := repo.Create(ctx, CreateInput{Timestamp: "2026-08-02T10:00:00.000Z", PollutionType: "noise", Sector: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// remoção apaga só o registro primário; o índice fica para trás
	if ok, err := repo.Delete(ctx, removed.ReportID); err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}

	all, err := repo.GetAll(ctx, 10, 0)
	if err != nil {
		t.Fatalf("getall failed: %v", err)
	}
	if len(all) != 1 || all[0].ReportID != kept.ReportID {
		t.Fatalf("expected orphan entry to be skipped, got %+v", all)
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	rep, err := repo.Create(ctx, CreateInput{PollutionType: "smoke", Sector: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.Update(ctx, rep.ReportID, UpdateInput{Status: strPtr("submitted")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != StatusSubmitted {
		t.Fatalf("expected submitted, got %s", updated.Status)
	}

	if _, err := repo.Update(ctx, rep.ReportID, UpdateInput{Status: strPtr("bogus")}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := repo.Update(ctx, "missing", UpdateInput{Status: strPtr("failed")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingReport(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	ok, err := repo.Delete(ctx, "missing")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if ok {
		t.Fatalf("expected delete of missing report to return false")
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, status := range []string{StatusPending, StatusSubmitted, StatusFailed, StatusResolved} {
		if !IsValidStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if IsValidStatus("closed") {
		t.Fatalf("expected closed to be invalid")
	}

	if !IsTerminalStatus(StatusSubmitted) || !IsTerminalStatus(StatusResolved) {
		t.Fatalf("expected submitted and resolved to be terminal")
	}
	if IsTerminalStatus(StatusPending) || IsTerminalStatus(StatusFailed) {
		t.Fatalf("expected pending and failed to be retryable")
	}
}
