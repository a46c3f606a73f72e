package http

import (
	"net/http"

	"contas/internal/core"
	"contas/internal/services"
)

type budgetStatusResponse struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Period     string  `json:"period"`
	LimitCents int64   `json:"limit_cents"`
	SpentCents int64   `json:"spent_cents"`
	Percentage float64 `json:"percentage"`
	OverBudget bool    `json:"over_budget"`
	Limit      float64 `json:"limit"`
	Spent      float64 `json:"spent"`
}

func toBudgetStatusResponse(bs services.BudgetStatus) budgetStatusResponse {
	pct := 0.0
	if bs.Budget.Limit.Cents > 0 {
		pct = float64(bs.Spent.Cents) / float64(bs.Budget.Limit.Cents)
		if pct > 1 {
			pct = 1
		}
	}
	return budgetStatusResponse{
		ID:         bs.Budget.ID,
		Category:   bs.Budget.Category,
		Period:     string(bs.Budget.Period),
		LimitCents: bs.Budget.Limit.Cents,
		SpentCents: bs.Spent.Cents,
		Percentage: pct,
		OverBudget: bs.Spent.Cents > bs.Budget.Limit.Cents,
		Limit:      bs.Budget.Limit.Float(),
		Spent:      bs.Spent.Float(),
	}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
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

	statuses, err := s.budgets.Statuses(r.Context(), owner, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]budgetStatusResponse, len(statuses))
	for i, bs := range statuses {
		out[i] = toBudgetStatusResponse(bs)
	}
	writeJSON(w, http.StatusOK, out)
}

type createBudgetRequest struct {
	Category string `json:"category"`
	Limit    string `json:"limit"`
	Period   string `json:"period"`
}

type budgetResponse struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Period     string  `json:"period"`
	LimitCents int64   `json:"limit_cents"`
	Limit      float64 `json:"limit"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit, err := parseAmount(req.Limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	b, err := s.budgets.Create(r.Context(), core.Budget{
		Owner:    owner,
		Category: sanitizeInput(req.Category),
		Limit:    limit,
		Period:   core.BudgetPeriod(req.Period),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, budgetResponse{
		ID:         b.ID,
		Category:   b.Category,
		Period:     string(b.Period),
		LimitCents: b.Limit.Cents,
		Limit:      b.Limit.Float(),
	})
}
