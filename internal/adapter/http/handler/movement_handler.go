package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankaccounts/internal/adapter/http/dto"
	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*domain.MovementDetail, error)
	GetMovement(ctx context.Context, id string) (*domain.MovementDetail, error)
	ListMovements(ctx context.Context) ([]*domain.MovementDetail, error)
	ListMovementsByAccount(ctx context.Context, accountID string) ([]*domain.MovementDetail, error)
	UpdateMovement(ctx context.Context, id string, input usecase.UpdateMovementInput) (*domain.MovementDetail, error)
	DeleteMovement(ctx context.Context, id string) error
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// Create records a new movement.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	movement, err := h.movementUC.CreateMovement(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create movement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// List lists all movements.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movementUC.ListMovements(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// ListByAccount lists an account's movements, most recent first.
func (h *MovementHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	movements, err := h.movementUC.ListMovementsByAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// Update edits a movement and recomputes the account's balance chain.
func (h *MovementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	movement, err := h.movementUC.UpdateMovement(r.Context(), id, input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// Delete removes a movement and recomputes the remaining chain.
func (h *MovementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.movementUC.DeleteMovement(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete movement", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
