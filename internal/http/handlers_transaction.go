package http

import (
	"errors"
	"fmt"
	"net/http"

	"contas/internal/core"
	"contas/internal/services"
)

var errMissingOwner = errors.New("missing X-User-ID header")

type transactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	AmountCents int64   `json:"amount_cents"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.Float(),
		Date:        t.Date.String(),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}
	year, month := parseYearMonth(r)

	txns, err := s.transactions.List(r.Context(), owner, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]transactionResponse, len(txns))
	for i, t := range txns {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

type createTransactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	t, err := s.transactions.Create(r.Context(), services.CreateTransactionInput{
		Owner:       owner,
		Type:        core.TransactionType(req.Type),
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Date:        date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateOverview(owner, t.Date)

	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

type categoryAmountResponse struct {
	Name        string  `json:"name"`
	AmountCents int64   `json:"amount_cents"`
	Amount      float64 `json:"amount"`
}

type monthOverviewResponse struct {
	Year          int                      `json:"year"`
	Month         int                      `json:"month"`
	IncomeCents   int64                    `json:"income_cents"`
	ExpensesCents int64                    `json:"expenses_cents"`
	BalanceCents  int64                    `json:"balance_cents"`
	ByCategory    []categoryAmountResponse `json:"by_category"`
}

func toMonthOverviewResponse(ov core.MonthOverview) monthOverviewResponse {
	resp := monthOverviewResponse{
		Year:          ov.Year,
		Month:         ov.Month,
		IncomeCents:   ov.Income.Cents,
		ExpensesCents: ov.Expenses.Cents,
		BalanceCents:  ov.Income.Cents - ov.Expenses.Cents,
		ByCategory:    make([]categoryAmountResponse, len(ov.ByCategory)),
	}
	for i, ca := range ov.ByCategory {
		resp.ByCategory[i] = categoryAmountResponse{
			Name:        ca.Name,
			AmountCents: ca.Amount.Cents,
			Amount:      ca.Amount.Float(),
		}
	}
	return resp
}

func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}
	year, month := parseYearMonth(r)

	key := overviewKey(owner, year, month)
	if cached, ok := s.overviewCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toMonthOverviewResponse(cached))
		return
	}

	overview, err := s.transactions.MonthOverview(r.Context(), owner, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.overviewCache.Set(key, overview)

	writeJSON(w, http.StatusOK, toMonthOverviewResponse(overview))
}

func overviewKey(owner string, year, month int) string {
	return fmt.Sprintf("%s:%d-%02d", owner, year, month)
}

func (s *Server) invalidateOverview(owner string, date core.Date) {
	s.overviewCache.Delete(overviewKey(owner, date.Year(), date.Month()))
}
