package http

import (
	"net/http"

	"contas/internal/core"
	"contas/internal/services"
)

type goalResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TargetCents  int64   `json:"target_cents"`
	CurrentCents int64   `json:"current_cents"`
	Target       float64 `json:"target"`
	Current      float64 `json:"current"`
	Deadline     string  `json:"deadline,omitempty"`
	Category     string  `json:"category,omitempty"`
	Complete     bool    `json:"complete"`
}

func toGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:           g.ID,
		Name:         g.Name,
		TargetCents:  g.Target.Cents,
		CurrentCents: g.Current.Cents,
		Target:       g.Target.Float(),
		Current:      g.Current.Float(),
		Category:     g.Category,
		Complete:     g.IsComplete(),
	}
	if !g.Deadline.IsZero() {
		resp.Deadline = g.Deadline.String()
	}
	return resp
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	goals, err := s.goals.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	writeJSON(w, http.StatusOK, out)
}

type createGoalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Initial  string `json:"initial,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var initial core.Money
	if req.Initial != "" {
		initial, err = parseAmount(req.Initial)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	var deadline core.Date
	if req.Deadline != "" {
		deadline, err = core.ParseDate(req.Deadline)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	g, err := s.goals.Create(r.Context(), services.CreateGoalInput{
		Owner:    owner,
		Name:     sanitizeInput(req.Name),
		Target:   target,
		Initial:  initial,
		Deadline: deadline,
		Category: sanitizeInput(req.Category),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGoalResponse(g))
}

type contributeGoalRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingOwner)
		return
	}

	var req contributeGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	amount, err := parseSignedAmount(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	g, err := s.goals.Contribute(r.Context(), owner, r.PathValue("id"), amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(g))
}
