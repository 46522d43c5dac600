package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trainerweb/internal/adapters/spreadsheet"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
	"trainerweb/internal/domain/billing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) period(req request) (billing.Period, error) {
	return billing.ParsePeriod(req.str("year"), req.str("half"), s.clock())
}

// handleBillingHalfYear handles GET /api/billing/halfyear?year=&half=
// Only the caller's own lines are returned.
func (s *Server) handleBillingHalfYear(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(readRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := projections.QueryGetHalfYearBilling(r.Context(), currentSession(r).TrainerID, p, s.billingDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"year":     res.Year,
		"half":     res.Half,
		"training": res.Training,
		"turnier":  res.Tournament,
		"summe":    res.Totals,
	})
}

// handleBillingOverview handles GET /api/admin/billing/overview?year=&half=
func (s *Server) handleBillingOverview(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(readRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := projections.QueryGetBillingOverview(r.Context(), p, s.billingDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"year":     res.Year,
		"half":     res.Half,
		"trainer":  res.Trainers,
		"summe":    res.Totals,
		"monate":   res.Months,
		"training": res.Training,
		"turnier":  res.Tournament,
	})
}

// handleBillingExport handles GET /api/admin/billing/export?year=&half=
// POST: Streams an XLSX with the sheets Training, Turniere and Summen;
// failures before the first byte still answer the JSON envelope
func (s *Server) handleBillingExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(readRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := projections.QueryGetBillingOverview(r.Context(), p, s.billingDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, projections.BillingSheets(res)); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="abrechnung-%d-H%d.xlsx"`, p.Year, p.Half))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// handleMonthStatuses handles GET /api/admin/billing/months?year=
func (s *Server) handleMonthStatuses(w http.ResponseWriter, r *http.Request) {
	p, err := s.period(readRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := projections.QueryGetMonthStatuses(r.Context(), p.Year, s.stores.Months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"year": p.Year, "items": items})
}

// handleSetMonthStatus handles POST /api/admin/billing/months/{month}
// Locked and released months refuse assignment changes.
func (s *Server) handleSetMonthStatus(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	ms, err := orchestrators.ExecuteSetMonthStatus(r.Context(), orchestrators.SetMonthStatusInput{
		Actor:  currentSession(r),
		Month:  chi.URLParam(r, "month"),
		Status: req.str("status"),
	}, s.monthDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"monat": ms.Month, "status": string(ms.Status)})
}
