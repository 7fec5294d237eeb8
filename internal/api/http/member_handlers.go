package http

import (
	"encoding/json"
	"net/http"
)

type enrollRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	member, err := h.enrollment.Enroll(r.Context(), req.Name, req.Email, req.Phone, req.Password, req.ReferralCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) handleAncestors(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	edges, err := h.network.AncestorsOf(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edges)
}

func (h *Handler) handleDescendants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	edges, err := h.network.DescendantsOf(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edges)
}

func (h *Handler) handleTeamSize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	size, err := h.network.TeamSize(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	direct, err := h.network.DirectReferralCount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"team_size": size, "direct_referrals": direct})
}

func (h *Handler) handleMoveSponsor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	var req struct {
		NewSponsorID int64 `json:"new_sponsor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.network.MoveSponsor(r.Context(), id, req.NewSponsorID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	if err := h.network.RemoveMember(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
