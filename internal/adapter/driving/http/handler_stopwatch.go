package httphandler

import "net/http"

// StopwatchStatus returns the stopwatch view: clock, ledgers, and history.
func (h *Handler) StopwatchStatus(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	st, err := h.stopwatchSvc.Status(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("stopwatch status failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, toStopwatchResponse(*st))
}

// StopwatchToggle alternates the stopwatch between running and idle.
func (h *Handler) StopwatchToggle(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if _, err := h.stopwatchSvc.Toggle(r.Context(), user.ID); err != nil {
		h.logger.Error("stopwatch toggle failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	h.StopwatchStatus(w, r)
}

// StopwatchCommit saves the current run as a session and resets the clock.
func (h *Handler) StopwatchCommit(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if _, err := h.stopwatchSvc.Commit(r.Context(), user.ID); err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	h.StopwatchStatus(w, r)
}

// StopwatchClear resets both ledgers and the session history. The UI asks
// for confirmation before calling this.
func (h *Handler) StopwatchClear(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := h.stopwatchSvc.ClearAll(r.Context(), user.ID); err != nil {
		h.logger.Error("stopwatch clear failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	h.StopwatchStatus(w, r)
}
