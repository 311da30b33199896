package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pivolan/case_dashboard/ai"
	"github.com/pivolan/case_dashboard/logging"
)

type aiRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model"`
}

type aiResponse struct {
	Result string `json:"result"`
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	if s.completer == nil {
		renderError(w, r, http.StatusServiceUnavailable, "AI relay is not configured")
		return
	}

	var req aiRequest
	if err := s.decode(r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "Prompt is required")
		return
	}
	model := req.Model
	if model == "" {
		model = s.cfg.Model
	}
	logging.Infof("Received prompt: %q, Model: %s", req.Prompt, model)

	result, err := s.completer.Complete(r.Context(), req.Prompt, model)
	if errors.Is(err, ai.ErrEmptyCompletion) {
		renderError(w, r, http.StatusInternalServerError, "Failed to get response content from OpenAI")
		return
	}
	if err != nil {
		logging.Errorf("Error processing /api/ai: %v", err)
		status := http.StatusInternalServerError
		details := err.Error()
		var upErr *ai.UpstreamError
		if errors.As(err, &upErr) {
			if upErr.Status >= 400 {
				status = upErr.Status
			}
			details = upErr.Details
		}
		render.Status(r, status)
		render.JSON(w, r, errorResponse{Error: "Failed to process AI request", Details: details})
		return
	}

	logging.Debugf("Completion: %s", result)
	render.JSON(w, r, aiResponse{Result: result})
}
