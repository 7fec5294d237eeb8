package http

import (
	"encoding/json"
	"net/http"

	"refnet-backend/internal/domain"
)

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	balance, err := h.ledger.AvailableBalance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"available_cents": balance})
}

func (h *Handler) handleCommissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	page, pageSize := pageParams(r)
	commissions, total, err := h.ledger.CommissionHistory(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"commissions": commissions,
		"total":       total,
	})
}

func (h *Handler) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return
	}
	page, pageSize := pageParams(r)
	withdrawals, total, err := h.ledger.ListWithdrawals(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"withdrawals": withdrawals,
		"total":       total,
	})
}

func (h *Handler) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID    int64  `json:"member_id"`
		AmountCents int64  `json:"amount_cents"`
		Method      string `json:"method"`
		Details     string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	withdrawal, err := h.ledger.RequestWithdrawal(r.Context(), req.MemberID, req.AmountCents, req.Method, req.Details)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, withdrawal)
}

func (h *Handler) handleProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid withdrawal id", http.StatusBadRequest)
		return
	}
	var req struct {
		Decision domain.WithdrawalDecision `json:"decision"`
		Remark   string                    `json:"remark"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	withdrawal, err := h.ledger.ProcessWithdrawal(r.Context(), id, req.Decision, req.Remark)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string  `json:"name"`
		PriceCents     int64   `json:"price_cents"`
		CommissionRate float64 `json:"commission_rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	product, err := h.catalog.AddProduct(r.Context(), req.Name, req.PriceCents, req.CommissionRate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	products, total, err := h.catalog.ListProducts(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}
