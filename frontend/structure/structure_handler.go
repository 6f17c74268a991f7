package structure

import (
	"net/http"
	"net/url"
	"strconv"

	"prodmetas/infrastructure/sqlite"
)

func StructurePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectors, err := ListSectors(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load sectors", http.StatusInternalServerError)
			return
		}
		machines, err := ListMachines(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load machines", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := StructurePage(PageData{
			Message:  r.URL.Query().Get("status"),
			Sectors:  sectors,
			Machines: machines,
		}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render structure page", http.StatusInternalServerError)
		}
	}
}

func SectorCreateCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "Malformed form")
			return
		}
		sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)
		if _, err := CreateSector(r.Context(), db, r.PostFormValue("name"), sortOrder); err != nil {
			redirectStatus(w, r, "Sector not created: "+err.Error())
			return
		}
		redirectStatus(w, r, "Sector created")
	}
}

func SectorUpdateCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "Malformed form")
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil || id <= 0 {
			redirectStatus(w, r, "Invalid sector id")
			return
		}
		sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)
		if err := UpdateSector(r.Context(), db, id, r.PostFormValue("name"), sortOrder); err != nil {
			redirectStatus(w, r, "Sector not updated: "+err.Error())
			return
		}
		redirectStatus(w, r, "Sector updated")
	}
}

func MachineCreateCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "Malformed form")
			return
		}
		sectorID, _ := strconv.ParseInt(r.PostFormValue("sector_id"), 10, 64)
		sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)
		if _, err := CreateMachine(r.Context(), db, sectorID, r.PostFormValue("code"), r.PostFormValue("name_display"), sortOrder); err != nil {
			redirectStatus(w, r, "Machine not created: "+err.Error())
			return
		}
		redirectStatus(w, r, "Machine created")
	}
}

func MachineUpdateCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectStatus(w, r, "Malformed form")
			return
		}
		id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil || id <= 0 {
			redirectStatus(w, r, "Invalid machine id")
			return
		}
		sectorID, _ := strconv.ParseInt(r.PostFormValue("sector_id"), 10, 64)
		sortOrder, _ := strconv.ParseInt(r.PostFormValue("sort_order"), 10, 64)
		isActive := r.PostFormValue("is_active") == "on" || r.PostFormValue("is_active") == "1"
		if err := UpdateMachine(r.Context(), db, id, sectorID, r.PostFormValue("code"), r.PostFormValue("name_display"), isActive, sortOrder); err != nil {
			redirectStatus(w, r, "Machine not updated: "+err.Error())
			return
		}
		redirectStatus(w, r, "Machine updated")
	}
}

func redirectStatus(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/wip/structure?status="+url.QueryEscape(message), http.StatusSeeOther)
}
