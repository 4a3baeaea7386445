package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ListGroups returns all groups, newest first, from the viewpoint of the
// signed-in user.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	groups, err := h.groupSvc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list groups", "error", err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g, user.ID))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateGroup creates a group with the signed-in user as its first member.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Group name must be between 2 and 100 characters")
		return
	}

	g, err := h.groupSvc.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(*g, user.ID))
}

// JoinGroup adds the signed-in user to the group.
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	groupID := r.PathValue("id")

	if err := h.groupSvc.Join(r.Context(), user.ID, groupID); err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Joined group!"})
}

// LeaveGroup removes the signed-in user from the group, deleting the group
// when its membership list becomes empty.
func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	groupID := r.PathValue("id")

	if err := h.groupSvc.Leave(r.Context(), user.ID, groupID); err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Left group!"})
}

// WatchGroups streams refresh signals over SSE. The client re-fetches the
// listing on each "refresh" event; a periodic ping keeps intermediaries from
// closing the idle connection. The subscription ends with the request.
func (h *Handler) WatchGroups(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	updates, cancel := h.watch.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial event so the client renders immediately after subscribing.
	fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
	flusher.Flush()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
			flusher.Flush()
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
