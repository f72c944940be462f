package httpadapter

import (
	"net/http"
	"strconv"
)

// handleListEvents returns the append-only event log in emission order. An
// optional `campaign_id` query parameter narrows the log to one campaign's
// escrow events.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var campaignID *int64
	if cid := r.URL.Query().Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			http.Error(w, "invalid campaign_id", http.StatusBadRequest)
			return
		}
		campaignID = &id
	}
	events, err := h.escrow.ListEvents(r.Context(), campaignID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}
