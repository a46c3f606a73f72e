package http

import (
	"net/http"

	"contas/internal/core"
	"contas/internal/services"
)

type obligationResponse struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	AmountCents  int64   `json:"amount_cents"`
	Amount       float64 `json:"amount"`
	Frequency    string  `json:"frequency"`
	NextDueDate  string  `json:"next_due_date"`
	Active       bool    `json:"active"`
	Status       string  `json:"status,omitempty"`
	DaysUntilDue *int    `json:"days_until_due,omitempty"`
}

func toObligationResponse(o core.Obligation) obligationResponse {
	return obligationResponse{
		ID:          o.ID,
		Description: o.Description,
		Category:    o.Category,
		AmountCents: o.Amount.Cents,
		Amount:      o.Amount.Float(),
		Frequency:   string(o.Frequency),
		NextDueDate: o.NextDueDate.String(),
		Active:      o.Active,
	}
}

func toObligationStatusResponse(os services.ObligationStatus) obligationResponse {
	resp := toObligationResponse(os.Obligation)
	resp.Status = string(os.Status.Bucket)
	days := os.Status.DaysUntilDue
	resp.DaysUntilDue = &days
	return resp
}

func (s *Server) handleListObligations(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}
	today, err := todayFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	statuses, err := s.obligations.ListWithStatus(r.Context(), owner, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]obligationResponse, len(statuses))
	for i, os := range statuses {
		out[i] = toObligationStatusResponse(os)
	}
	writeJSON(w, http.StatusOK, out)
}

type createObligationRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	StartDate   string `json:"start_date"`
}

func (s *Server) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req createObligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	today, err := todayFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	o, err := s.obligations.Create(r.Context(), services.CreateObligationInput{
		Owner:       owner,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Frequency:   core.Frequency(req.Frequency),
		StartDate:   startDate,
	}, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toObligationResponse(o))
}

type payObligationResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Obligation  obligationResponse  `json:"obligation"`
}

func (s *Server) handlePayObligation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}
	today, err := todayFromRequest(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := s.obligations.Pay(r.Context(), owner, r.PathValue("id"), today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The posted entry changes that month's totals.
	s.invalidateOverview(owner, result.Transaction.Date)

	writeJSON(w, http.StatusOK, payObligationResponse{
		Transaction: toTransactionResponse(result.Transaction),
		Obligation:  toObligationResponse(result.Obligation),
	})
}

type updateObligationRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	NextDueDate string `json:"next_due_date"`
	Active      bool   `json:"active"`
}

func (s *Server) handleUpdateObligation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req updateObligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	nextDue, err := core.ParseDate(req.NextDueDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	o, err := s.obligations.Update(r.Context(), owner, r.PathValue("id"), services.UpdateObligationInput{
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Frequency:   core.Frequency(req.Frequency),
		NextDueDate: nextDue,
		Active:      req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toObligationResponse(o))
}

func (s *Server) handleDeactivateObligation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	if err := s.obligations.Deactivate(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteObligation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	if err := s.obligations.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
