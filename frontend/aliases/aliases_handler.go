package aliases

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"prodmetas/frontend/importer"
	"prodmetas/infrastructure/activebatch"
	"prodmetas/infrastructure/sqlite"
	"prodmetas/models"
)

func AliasesPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchID := resolveBatchID(r, db)

		data := PageData{
			Message: r.URL.Query().Get("status"),
			BatchID: batchID,
		}
		if batchID != "" {
			batch, err := importer.FetchBatch(r.Context(), db, batchID)
			if err != nil {
				redirectStatus(w, r, "/wip/import", "Batch not found; upload again")
				return
			}
			data.Batch = batch
			pending, err := FetchPendingAliases(r.Context(), db, batchID)
			if err != nil {
				http.Error(w, "failed to load pending aliases", http.StatusInternalServerError)
				return
			}
			data.Pending = pending
		}

		configured, err := FetchConfiguredAliases(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load configured aliases", http.StatusInternalServerError)
			return
		}
		machines, err := ListMachineOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load machines", http.StatusInternalServerError)
			return
		}
		sectors, err := ListSectors(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load sectors", http.StatusInternalServerError)
			return
		}
		data.Configured = configured
		data.Machines = machines
		data.Sectors = sectors

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := AliasesPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render aliases page", http.StatusInternalServerError)
		}
	}
}

func AliasApplyCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Malformed form")
			return
		}
		batchID := strings.TrimSpace(r.PostFormValue("batch_id"))
		if batchID == "" {
			redirectStatus(w, r, "/wip/aliases", "Missing batch id")
			return
		}
		in := ApplyInput{
			AliasRaw:    r.PostFormValue("alias_raw"),
			AliasNorm:   strings.TrimSpace(r.PostFormValue("alias_norm")),
			Mode:        r.PostFormValue("mode"),
			Code:        r.PostFormValue("code"),
			NameDisplay: r.PostFormValue("name_display"),
		}
		in.MachineID, _ = strconv.ParseInt(r.PostFormValue("machine_id"), 10, 64)
		in.SectorID, _ = strconv.ParseInt(r.PostFormValue("sector_id"), 10, 64)

		batch, err := ApplyMapping(r.Context(), db, batchID, in)
		if err != nil {
			slog.Error("alias mapping failed", slog.String("alias", in.AliasNorm), slog.Any("err", err))
			redirectStatus(w, r, aliasesPath(batchID), "Mapping failed: "+err.Error())
			return
		}
		if batch.Status == models.BatchReady {
			redirectStatus(w, r, "/wip/results", "All categories mapped; results updated")
			return
		}
		redirectStatus(w, r, aliasesPath(batchID), "Mapping saved")
	}
}

// AliasReprocessCommandHandler re-runs batch processing without changing any
// mapping, for when aliases were fixed from another screen.
func AliasReprocessCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Malformed form")
			return
		}
		batchID := strings.TrimSpace(r.PostFormValue("batch_id"))
		if batchID == "" {
			redirectStatus(w, r, "/wip/aliases", "Missing batch id")
			return
		}
		if err := importer.ProcessProductionBatch(r.Context(), db, batchID); err != nil {
			slog.Error("batch reprocess failed", slog.String("batch_id", batchID), slog.Any("err", err))
			redirectStatus(w, r, aliasesPath(batchID), "Reprocess failed: "+err.Error())
			return
		}
		batch, err := importer.FetchBatch(r.Context(), db, batchID)
		if err == nil && batch.Status == models.BatchReady {
			redirectStatus(w, r, "/wip/results", "Batch processed; results updated")
			return
		}
		redirectStatus(w, r, aliasesPath(batchID), "Batch reprocessed")
	}
}

// AliasUpdateCommandHandler re-points a configured alias to another machine.
// No automatic reprocess: already-consolidated batches keep their numbers
// until someone reprocesses explicitly.
func AliasUpdateCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Malformed form")
			return
		}
		aliasNorm := strings.TrimSpace(r.PostFormValue("alias_norm"))
		aliasRaw := r.PostFormValue("alias_raw")
		machineID, _ := strconv.ParseInt(r.PostFormValue("machine_id"), 10, 64)
		if err := UpsertAlias(r.Context(), db, aliasRaw, aliasNorm, machineID); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Alias not updated: "+err.Error())
			return
		}
		redirectStatus(w, r, "/wip/aliases", "Alias re-pointed; reprocess a batch to apply it")
	}
}

func AliasDeleteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Malformed form")
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil || id <= 0 {
			redirectStatus(w, r, "/wip/aliases", "Invalid alias id")
			return
		}
		if err := DeleteAlias(r.Context(), db, id); err != nil {
			redirectStatus(w, r, "/wip/aliases", "Delete failed: "+err.Error())
			return
		}
		redirectStatus(w, r, "/wip/aliases", "Alias removed")
	}
}

// resolveBatchID picks the batch to work on: explicit query param first, then
// the active-batch cookie, then the most recent upload.
func resolveBatchID(r *http.Request, db *sqlite.DB) string {
	if id := strings.TrimSpace(r.URL.Query().Get("batch_id")); id != "" {
		return id
	}
	if id := activebatch.Get(r); id != "" {
		return id
	}
	id, err := importer.FetchLatestBatchID(r.Context(), db)
	if err != nil {
		slog.Error("latest batch lookup failed", slog.Any("err", err))
		return ""
	}
	return id
}

func aliasesPath(batchID string) string {
	return "/wip/aliases?batch_id=" + url.QueryEscape(batchID)
}

func redirectStatus(w http.ResponseWriter, r *http.Request, path, message string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	http.Redirect(w, r, path+sep+"status="+url.QueryEscape(message), http.StatusSeeOther)
}
