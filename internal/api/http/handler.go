package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"refnet-backend/internal/domain"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/service"

	"github.com/gorilla/mux"
)

// Handler is the thin JSON surface over the core services. It only decodes
// requests, dispatches, and maps sentinel errors to status codes; all
// validation and state logic lives in the services.
type Handler struct {
	enrollment service.EnrollmentService
	network    service.NetworkService
	catalog    service.CatalogService
	orders     service.OrderService
	ledger     service.LedgerService
}

func NewHandler(
	enrollment service.EnrollmentService,
	network service.NetworkService,
	catalog service.CatalogService,
	orders service.OrderService,
	ledger service.LedgerService,
) *Handler {
	return &Handler{
		enrollment: enrollment,
		network:    network,
		catalog:    catalog,
		orders:     orders,
		ledger:     ledger,
	}
}

// RegisterRoutes mounts all endpoints on the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/members", h.handleEnroll).Methods(http.MethodPost)
	r.HandleFunc("/members/{id}/ancestors", h.handleAncestors).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/descendants", h.handleDescendants).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/team-size", h.handleTeamSize).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/sponsor", h.handleMoveSponsor).Methods(http.MethodPut)
	r.HandleFunc("/members/{id}", h.handleRemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/members/{id}/balance", h.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/commissions", h.handleCommissions).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/withdrawals", h.handleListWithdrawals).Methods(http.MethodGet)

	r.HandleFunc("/products", h.handleAddProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.handleListProducts).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.handleCreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.handleGetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/confirm", h.handleConfirmOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/accept", h.handleAcceptDelivery).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/cancellation-request", h.handleRequestCancellation).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/cancellation-approval", h.handleApproveCancellation).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/cancellation-rejection", h.handleRejectCancellation).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/cancel", h.handleCancelOrder).Methods(http.MethodPost)

	r.HandleFunc("/withdrawals", h.handleRequestWithdrawal).Methods(http.MethodPost)
	r.HandleFunc("/withdrawals/{id}/decision", h.handleProcessWithdrawal).Methods(http.MethodPost)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyProcessed),
		errors.Is(err, domain.ErrCommissionExists),
		errors.Is(err, domain.ErrHasReferrals),
		errors.Is(err, domain.ErrContactAlreadyRegistered):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidReferralCode),
		errors.Is(err, domain.ErrContactRequired),
		errors.Is(err, domain.ErrSelfSponsorship),
		errors.Is(err, domain.ErrCycle),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrReasonRequired),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func pageParams(r *http.Request) (int32, int32) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return int32(page), int32(pageSize)
}
