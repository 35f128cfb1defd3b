package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/bankaccounts/internal/adapter/http/dto"
	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Report(ctx context.Context, input usecase.ReportInput) ([]*domain.MovementDetail, error)
}

// ReportHandler serves the account statement report.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Get builds a statement report for an account over a date range. Omitted
// dates each default to today.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account_id", "")
		return
	}

	input := usecase.ReportInput{AccountID: accountID}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
			return
		}

		input.StartDate = &parsed
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
			return
		}

		input.EndDate = &parsed
	}

	rows, err := h.reportUC.Report(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(rows))
}
