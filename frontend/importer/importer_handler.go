package importer

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"prodmetas/infrastructure/activebatch"
	"prodmetas/infrastructure/sqlite"
)

// 20 MB is far above any plausible WIP workbook.
const maxUploadBytes = 20 << 20

func ImportPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := ListRecentBatches(r.Context(), db, 20)
		if err != nil {
			http.Error(w, "failed to load recent uploads", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ImportPage(PageData{
			Message: r.URL.Query().Get("status"),
			Batches: batches,
		}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render import page", http.StatusInternalServerError)
		}
	}
}

func ImportUploadCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			redirectStatus(w, r, "/wip/import", "File too large or form malformed")
			return
		}
		file, header, err := r.FormFile("wip_file")
		if err != nil {
			redirectStatus(w, r, "/wip/import", "Choose a .xlsx file to upload")
			return
		}
		defer file.Close()

		parsed, err := ParseWIPWorkbook(file)
		if err != nil {
			slog.Warn("wip parse rejected", slog.String("file", header.Filename), slog.Any("err", err))
			redirectStatus(w, r, "/wip/import", "Could not read the workbook: "+err.Error())
			return
		}

		outcome := UploadAndProcessBatch(r.Context(), db, UploadInput{
			Rows:      parsed.Rows,
			RefDate:   parsed.RefDate,
			YearMonth: parsed.YearMonth,
		})
		if !outcome.OK {
			slog.Error("batch upload failed", slog.String("file", header.Filename), slog.String("reason", outcome.Message))
			redirectStatus(w, r, "/wip/import", "Upload failed: "+outcome.Message)
			return
		}

		activebatch.Set(w, outcome.BatchID)
		slog.Info("batch uploaded",
			slog.String("batch_id", outcome.BatchID),
			slog.String("status", outcome.Status),
			slog.Int("rows", parsed.Stats.RowCount))

		summary := uploadSummary(parsed.Stats)
		if outcome.UnresolvedCount > 0 {
			redirectStatus(w, r, "/wip/aliases", summary+"; map the pending categories to finish")
			return
		}
		redirectStatus(w, r, "/wip/results", summary+"; results updated")
	}
}

// uploadSummary tells the operator what was ingested.
func uploadSummary(stats ParseStats) string {
	return fmt.Sprintf("Imported %d rows (%s to %s, %d machines, %.2f hours)",
		stats.RowCount, stats.DayMin, stats.DayMax, stats.Machines, stats.HoursTotal)
}

func redirectStatus(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?status="+url.QueryEscape(message), http.StatusSeeOther)
}
