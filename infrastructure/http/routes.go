package http

import (
	"github.com/go-chi/chi/v5"

	aliasespage "prodmetas/frontend/aliases"
	importerpage "prodmetas/frontend/importer"
	resultspage "prodmetas/frontend/results"
	structurepage "prodmetas/frontend/structure"
	targetspage "prodmetas/frontend/targets"
)

// RegisterFrontendRoutes wires every screen under /wip.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	r.Get("/import", importerpage.ImportPageQueryHandler(s.DB))
	r.Post("/import", importerpage.ImportUploadCommandHandler(s.DB))

	r.Get("/aliases", aliasespage.AliasesPageQueryHandler(s.DB))
	r.Post("/aliases/apply", aliasespage.AliasApplyCommandHandler(s.DB))
	r.Post("/aliases/reprocess", aliasespage.AliasReprocessCommandHandler(s.DB))
	r.Post("/aliases/configured", aliasespage.AliasUpdateCommandHandler(s.DB))
	r.Post("/aliases/delete", aliasespage.AliasDeleteCommandHandler(s.DB))

	r.Get("/structure", structurepage.StructurePageQueryHandler(s.DB))
	r.Post("/structure/sectors", structurepage.SectorCreateCommandHandler(s.DB))
	r.Post("/structure/sectors/update", structurepage.SectorUpdateCommandHandler(s.DB))
	r.Post("/structure/machines", structurepage.MachineCreateCommandHandler(s.DB))
	r.Post("/structure/machines/update", structurepage.MachineUpdateCommandHandler(s.DB))

	r.Get("/targets", targetspage.TargetsPageQueryHandler(s.DB))
	r.Post("/targets/defaults", targetspage.TargetDefaultCommandHandler(s.DB))
	r.Post("/targets/daily", targetspage.TargetDailyCommandHandler(s.DB))
	r.Post("/targets/daily/delete", targetspage.TargetDailyDeleteCommandHandler(s.DB))
	r.Post("/targets/zero-day", targetspage.TargetZeroDayCommandHandler(s.DB))
	r.Post("/targets/copy", targetspage.TargetCopyCommandHandler(s.DB))

	r.Get("/results", resultspage.ResultsPageQueryHandler(s.DB))
	r.Get("/results/export.xlsx", resultspage.ResultsExportXLSXHandler(s.DB))
	r.Get("/results/export.pdf", resultspage.ResultsExportPDFHandler(s.DB))

	return r
}
