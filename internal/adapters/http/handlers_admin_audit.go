package web

import (
	"net/http"
	"strconv"

	auditStore "trainerweb/internal/adapters/storage/audit"
	auditDomain "trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/training"
)

// handleAdminAudit handles GET /api/admin/audit
// PRE: admin session
// POST: Answers the newest events first, filtered by category, action,
// actor_id, resource_id and a from/to date range
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := auditStore.Filter{}

	if category := q.Get("category"); category != "" {
		cat := auditDomain.Category(category)
		filter.Category = &cat
	}
	if action := q.Get("action"); action != "" {
		act := auditDomain.Action(action)
		filter.Action = &act
	}
	if actorID := q.Get("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if resourceID := q.Get("resource_id"); resourceID != "" {
		filter.ResourceID = &resourceID
	}
	if from, err := training.ParseDate(q.Get("from")); err == nil {
		filter.From = from
	}
	if to, err := training.ParseDate(q.Get("to")); err == nil {
		filter.To = to.AddDate(0, 0, 1) // inclusive end day
	}

	limit := 100
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}

	events, err := s.stores.Audit.List(r.Context(), filter, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []auditDomain.Event{}
	}
	writeOK(w, envelope{"items": events, "limit": limit})
}
