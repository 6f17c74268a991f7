package targets

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"prodmetas/frontend/structure"
	"prodmetas/infrastructure/sqlite"
)

func TargetsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monthStart := monthStartOf(r.URL.Query().Get("month"))

		machines, err := structure.ListMachines(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load machines", http.StatusInternalServerError)
			return
		}
		defaults, err := FetchDefaults(r.Context(), db, monthStart)
		if err != nil {
			http.Error(w, "failed to load targets", http.StatusInternalServerError)
			return
		}
		overrides, err := FetchDaily(r.Context(), db, monthStart, monthEndOf(monthStart))
		if err != nil {
			http.Error(w, "failed to load overrides", http.StatusInternalServerError)
			return
		}

		defaultsByMachine := make(map[int64]float64, len(defaults))
		for _, d := range defaults {
			defaultsByMachine[d.MachineID] = d.DailyTarget
		}
		labels := make(map[int64]string, len(machines))
		for _, m := range machines {
			labels[m.ID] = m.Code
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := TargetsPage(PageData{
			Message:      r.URL.Query().Get("status"),
			MonthStart:   monthStart,
			PrevMonth:    shiftMonth(monthStart, -1),
			NextMonth:    shiftMonth(monthStart, 1),
			Machines:     machines,
			Defaults:     defaultsByMachine,
			Overrides:    overrides,
			MachineLabel: labels,
		}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render targets page", http.StatusInternalServerError)
		}
	}
}

func TargetDefaultCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "", "Malformed form")
			return
		}
		monthStart := monthStartOf(r.PostFormValue("month"))
		machineID, _ := strconv.ParseInt(r.PostFormValue("machine_id"), 10, 64)
		value, err := parseHours(r.PostFormValue("daily_target"))
		if err != nil {
			redirectStatus(w, r, monthStart, "Invalid target value")
			return
		}
		if err := UpsertDefault(r.Context(), db, machineID, monthStart, value); err != nil {
			redirectStatus(w, r, monthStart, "Target not saved: "+err.Error())
			return
		}
		redirectStatus(w, r, monthStart, "Default target saved")
	}
}

func TargetDailyCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "", "Malformed form")
			return
		}
		day := strings.TrimSpace(r.PostFormValue("day"))
		monthStart := monthStartOf(day)
		machineID, _ := strconv.ParseInt(r.PostFormValue("machine_id"), 10, 64)
		value, err := parseHours(r.PostFormValue("target_hours"))
		if err != nil {
			redirectStatus(w, r, monthStart, "Invalid override value")
			return
		}
		if err := UpsertDaily(r.Context(), db, machineID, day, value); err != nil {
			redirectStatus(w, r, monthStart, "Override not saved: "+err.Error())
			return
		}
		redirectStatus(w, r, monthStart, "Override saved")
	}
}

func TargetDailyDeleteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "", "Malformed form")
			return
		}
		day := strings.TrimSpace(r.PostFormValue("day"))
		monthStart := monthStartOf(day)
		machineID, _ := strconv.ParseInt(r.PostFormValue("machine_id"), 10, 64)
		if err := DeleteDaily(r.Context(), db, machineID, day); err != nil {
			redirectStatus(w, r, monthStart, "Override not removed: "+err.Error())
			return
		}
		redirectStatus(w, r, monthStart, "Override removed; default applies again")
	}
}

// TargetZeroDayCommandHandler zeroes one day for every active machine, for a
// holiday or plant stoppage.
func TargetZeroDayCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "", "Malformed form")
			return
		}
		day := strings.TrimSpace(r.PostFormValue("day"))
		monthStart := monthStartOf(day)
		if day == "" {
			redirectStatus(w, r, monthStart, "Pick a day to zero")
			return
		}
		machines, err := structure.ListMachines(r.Context(), db)
		if err != nil {
			redirectStatus(w, r, monthStart, "Failed to load machines")
			return
		}
		ids := make([]int64, 0, len(machines))
		for _, m := range machines {
			if m.IsActive {
				ids = append(ids, m.ID)
			}
		}
		if err := ZeroDayForMachines(r.Context(), db, day, ids); err != nil {
			redirectStatus(w, r, monthStart, "Day not zeroed: "+err.Error())
			return
		}
		redirectStatus(w, r, monthStart, fmt.Sprintf("Day %s zeroed for %d machines", day, len(ids)))
	}
}

func TargetCopyCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "", "Malformed form")
			return
		}
		target := monthStartOf(r.PostFormValue("month"))
		source := monthStartOf(r.PostFormValue("source_month"))
		n, err := CopyDefaults(r.Context(), db, source, target)
		if err != nil {
			redirectStatus(w, r, target, "Copy failed: "+err.Error())
			return
		}
		if n == 0 {
			redirectStatus(w, r, target, "Source month has no defaults to copy")
			return
		}
		redirectStatus(w, r, target, fmt.Sprintf("Copied defaults for %d machines", n))
	}
}

// monthStartOf normalizes "2025-08", "2025-08-15" or empty into the first day
// of that (or the current) month.
func monthStartOf(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t.Format("2006-01-02")
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func monthEndOf(monthStart string) string {
	t, err := time.Parse("2006-01-02", monthStart)
	if err != nil {
		return monthStart
	}
	return t.AddDate(0, 1, -1).Format("2006-01-02")
}

func shiftMonth(monthStart string, n int) string {
	t, err := time.Parse("2006-01-02", monthStart)
	if err != nil {
		return monthStart
	}
	return t.AddDate(0, n, 0).Format("2006-01-02")
}

// parseHours accepts the decimal comma operators actually type.
func parseHours(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}

func redirectStatus(w http.ResponseWriter, r *http.Request, monthStart, message string) {
	path := "/wip/targets?status=" + url.QueryEscape(message)
	if monthStart != "" {
		path += "&month=" + url.QueryEscape(monthStart)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
