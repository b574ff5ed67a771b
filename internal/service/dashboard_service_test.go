package service

import (
	"context"
	"testing"

	"github.com/gestaozabele/lapor/internal/report"
)

func createAt(t *testing.T, f *reportFixture, timestamp, pollutionType string, sector int) *report.Report {
	t.Helper()
	rep, err := f.reports.Create(context.Background(), report.CreateInput{
		Timestamp:     timestamp,
		IPAddress:     "203.0.113.5",
		PollutionType: pollutionType,
		Sector:        sector,
		Status:        report.StatusPending,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return rep
}

func TestDashboardAggregations(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	createAt(t, f, "2026-08-15T10:30:00.000Z", "smoke", 1)
	createAt(t, f, "2026-08-15T10:45:00.000Z", "smoke", 1)
	createAt(t, f, "2026-08-15T22:05:00.000Z", "smell", 2)
	createAt(t, f, "2026-03-01T08:00:00.000Z", "noise", 3)
	// fora do ano selecionado: não entra no calendário
	createAt(t, f, "2025-12-31T23:00:00.000Z", "water", 1)

	data, err := f.service.Dashboard(ctx, 2026, 8, 15)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if data.Summary.Total != 5 {
		t.Fatalf("expected total 5, got %d", data.Summary.Total)
	}
	if data.Summary.Pending != 5 {
		t.Fatalf("expected all pending, got %d", data.Summary.Pending)
	}
	if data.SelectedDate != "2026-08-15" {
		t.Fatalf("unexpected selected date: %s", data.SelectedDate)
	}

	if got := data.Monthly["2026-08-15"]; got != 3 {
		t.Fatalf("expected 3 reports on 2026-08-15, got %d", got)
	}
	if got := data.Monthly["2026-03-01"]; got != 1 {
		t.Fatalf("expected 1 report on 2026-03-01, got %d", got)
	}
	if _, ok := data.Monthly["2026-02-29"]; ok {
		t.Fatalf("2026 is not a leap year, found 2026-02-29")
	}
	if _, ok := data.Monthly["2026-02-28"]; !ok {
		t.Fatalf("expected calendar to include 2026-02-28")
	}

	if got := data.Daily.Hourly["10"]; got != 2 {
		t.Fatalf("expected 2 reports at 10h, got %d", got)
	}
	if got := data.Daily.Hourly["22"]; got != 1 {
		t.Fatalf("expected 1 report at 22h, got %d", got)
	}
	if got := data.Daily.Hourly["03"]; got != 0 {
		t.Fatalf("expected zero-initialized hour, got %d", got)
	}

	// códigos legados resolvem para os nomes de exibição do seed
	if got := data.Types["Smoke"]; got != 2 {
		t.Fatalf("expected 2 smoke reports, got %d", got)
	}
	if got := data.Types["Bad Smell / Odor"]; got != 1 {
		t.Fatalf("expected 1 smell report, got %d", got)
	}

	if got := data.Sectors["Sector 1"]; got != 3 {
		t.Fatalf("expected 3 reports in Sector 1, got %d", got)
	}
	if got := data.Sectors["Sector 2"]; got != 1 {
		t.Fatalf("expected 1 report in Sector 2, got %d", got)
	}
}

func TestDashboardUnknownTypeCountsAsOther(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	createAt(t, f, "2026-08-15T10:30:00.000Z", "mystery_goo", 1)

	data, err := f.service.Dashboard(ctx, 2026, 8, 15)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if got := data.Types["Other"]; got != 1 {
		t.Fatalf("expected unknown type bucketed as Other, got %d", got)
	}
}

func TestDashboardOutOfRangeSectorFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)

	createAt(t, f, "2026-08-15T10:30:00.000Z", "smoke", 99)

	data, err := f.service.Dashboard(ctx, 2026, 8, 15)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	// setor fora da faixa cai no primeiro setor ativo
	if got := data.Sectors["Sector 1"]; got != 1 {
		t.Fatalf("expected fallback to first sector, got %d", got)
	}
}
