package handlers

import (
	"context"
	"net/http"

	sweepjob "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/jobs/sweep"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/dto"
	httperrors "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/errors"
)

type SweepRunner interface {
	Run(ctx context.Context) (sweepjob.Result, error)
}

type SweepHandler struct {
	job SweepRunner
}

func NewSweepHandler(job SweepRunner) *SweepHandler {
	return &SweepHandler{job: job}
}

func (h *SweepHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.job == nil {
		writeInternal(w, "SWEEP_UNAVAILABLE", "sweep job is unavailable")
		return
	}

	result, err := h.job.Run(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "moderation sweep failed")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SweepResponse{
		Processed: result.Processed,
		Approved:  result.Approved,
		Rejected:  result.Rejected,
		Pending:   result.Pending,
		Errors:    result.Errors,
	})
}
