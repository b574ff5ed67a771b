package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaozabele/lapor/internal/report"
	"github.com/gestaozabele/lapor/internal/taxonomy"
)

// DashboardSummary agrega contadores do painel público.
type DashboardSummary struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisMonth int `json:"thisMonth"`
	Pending   int `json:"pending"`
}

// DashboardDaily é a distribuição horária do dia selecionado.
type DashboardDaily struct {
	Date   string         `json:"date"`
	Hourly map[string]int `json:"hourly"`
}

// DashboardData é o payload consolidado do painel.
type DashboardData struct {
	Summary      DashboardSummary `json:"summary"`
	Monthly      map[string]int   `json:"monthly"`
	Daily        DashboardDaily   `json:"daily"`
	Types        map[string]int   `json:"types"`
	Sectors      map[string]int   `json:"sectors"`
	SelectedDate string           `json:"selectedDate"`
}

// dashboardScanLimit cobre o histórico completo em instalações do porte
// esperado; o painel agrega em memória como a implementação de origem.
const dashboardScanLimit = 10000

// Dashboard calcula as distribuições do painel para o ano e dia
// selecionados. Códigos legados de tipo e setor são resolvidos apenas
// aqui, na borda de exibição.
func (s *ReportService) Dashboard(ctx context.Context, year, month, day int) (*DashboardData, error) {
	all, err := s.reports.GetAll(ctx, dashboardScanLimit, 0)
	if err != nil {
		return nil, err
	}

	activeTypes, err := s.types.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	activeSectors, err := s.sectors.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// todos os dias do ano começam zerados, estilo gráfico de contribuições
	monthly := make(map[string]int)
	for m := time.January; m <= time.December; m++ {
		daysInMonth := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for d := 1; d <= daysInMonth; d++ {
			monthly[fmt.Sprintf("%04d-%02d-%02d", year, m, d)] = 0
		}
	}

	selectedDate := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	hourly := make(map[string]int, 24)
	for h := 0; h < 24; h++ {
		hourly[fmt.Sprintf("%02d", h)] = 0
	}

	types := make(map[string]int, len(activeTypes))
	for _, t := range activeTypes {
		types[t.Name] = 0
	}
	sectors := make(map[string]int, len(activeSectors))
	for _, sec := range activeSectors {
		sectors[sec.Name] = 0
	}

	pending := 0
	for _, rep := range all {
		if rep.Status == report.StatusPending {
			pending++
		}

		typeName := taxonomy.DisplayTypeName(rep.PollutionType, activeTypes)
		if _, ok := types[typeName]; ok {
			types[typeName]++
		} else if _, ok := types["Other"]; ok {
			types["Other"]++
		}

		sectorName := taxonomy.DisplaySectorName(rep.Sector, activeSectors)
		if _, ok := sectors[sectorName]; ok {
			sectors[sectorName]++
		} else if len(activeSectors) > 0 {
			sectors[activeSectors[0].Name]++
		}

		ts, err := time.Parse(time.RFC3339, rep.Timestamp)
		if err != nil {
			continue
		}
		ts = ts.UTC()

		if ts.Year() == year {
			monthly[ts.Format("2006-01-02")]++
		}
		if ts.Format("2006-01-02") == selectedDate {
			hourly[ts.Format("15")]++
		}
	}

	now := time.Now().UTC()
	today := monthly[now.Format("2006-01-02")]
	thisMonthPrefix := now.Format("2006-01")
	thisMonth := 0
	for date, count := range monthly {
		if len(date) >= 7 && date[:7] == thisMonthPrefix {
			thisMonth += count
		}
	}

	return &DashboardData{
		Summary: DashboardSummary{
			Total:     len(all),
			Today:     today,
			ThisMonth: thisMonth,
			Pending:   pending,
		},
		Monthly:      monthly,
		Daily:        DashboardDaily{Date: selectedDate, Hourly: hourly},
		Types:        types,
		Sectors:      sectors,
		SelectedDate: selectedDate,
	}, nil
}
