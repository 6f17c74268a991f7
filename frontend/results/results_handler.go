package results

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prodmetas/infrastructure/sqlite"
)

func ResultsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := loadPageData(r, db)
		if err != nil {
			slog.Error("results load failed", slog.Any("err", err))
			http.Error(w, "failed to load results", http.StatusInternalServerError)
			return
		}
		data.Message = r.URL.Query().Get("status")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ResultsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render results page", http.StatusInternalServerError)
		}
	}
}

func ResultsExportXLSXHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := loadPageData(r, db)
		if err != nil {
			http.Error(w, "failed to load results", http.StatusInternalServerError)
			return
		}
		if !data.HasData {
			http.Redirect(w, r, "/wip/results?status="+url.QueryEscape("Nothing to export for this month"), http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=resultados-"+data.MonthStart[:7]+".xlsx")
		if err := WriteResultsXLSX(w, data); err != nil {
			slog.Error("xlsx export failed", slog.Any("err", err))
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
		}
	}
}

func ResultsExportPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := loadPageData(r, db)
		if err != nil {
			http.Error(w, "failed to load results", http.StatusInternalServerError)
			return
		}
		if !data.HasData {
			http.Redirect(w, r, "/wip/results?status="+url.QueryEscape("Nothing to export for this month"), http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=resultados-"+data.MonthStart[:7]+".pdf")
		if err := WriteResultsPDF(w, data); err != nil {
			slog.Error("pdf export failed", slog.Any("err", err))
			http.Error(w, "failed to export pdf", http.StatusInternalServerError)
		}
	}
}

// loadPageData resolves the query parameters, picks the month (explicit, else
// the latest ready batch's month, else the current one) and runs the
// aggregation.
func loadPageData(r *http.Request, db *sqlite.DB) (PageData, error) {
	ctx := r.Context()
	q := r.URL.Query()

	mode := q.Get("mode")
	if mode != ModeAccounting {
		mode = ModeProduction
	}

	monthStart := normalizeMonth(q.Get("month"))
	if monthStart == "" {
		batch, ok, err := FetchLatestReadyBatch(ctx, db)
		if err != nil {
			return PageData{}, err
		}
		if ok && batch.YearMonth != "" {
			monthStart = batch.YearMonth
		} else {
			monthStart = currentMonthStart()
		}
	}

	selectedDay := strings.TrimSpace(q.Get("day"))
	if selectedDay != "" && !strings.HasPrefix(selectedDay, monthStart[:7]) {
		selectedDay = ""
	}

	data := PageData{
		MonthStart:  monthStart,
		PrevMonth:   shiftMonth(monthStart, -1),
		Mode:        mode,
		SelectedDay: selectedDay,
	}
	// Navigation stops at the current calendar month.
	if next := shiftMonth(monthStart, 1); next <= currentMonthStart() {
		data.NextMonth = next
	}

	in, hasData, err := LoadMonth(ctx, db, monthStart, selectedDay, mode)
	if err != nil {
		return data, err
	}
	if !hasData {
		return data, nil
	}

	data.HasData = true
	data.RefDate = in.RefDate
	if data.SelectedDay == "" {
		data.SelectedDay = in.RefDate
	}

	rows := ComputeMachineMetrics(in)
	data.Groups = GroupBySector(rows)
	data.Total = GrandTotal(rows)
	data.Track = DailyTrack(in)
	return data, nil
}

func normalizeMonth(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}

func currentMonthStart() string {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func shiftMonth(monthStart string, n int) string {
	t, err := time.Parse("2006-01-02", monthStart)
	if err != nil {
		return monthStart
	}
	return t.AddDate(0, n, 0).Format("2006-01-02")
}
