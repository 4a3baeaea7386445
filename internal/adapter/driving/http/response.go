package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amckenna/studyhub/internal/application"
	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// genericErrorMessage is what clients see for provider/transport failures.
// Raw internal error text never reaches the response body.
const genericErrorMessage = "An error occurred. Please try again."

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// mapError translates service errors into an HTTP status and a user-facing
// message. Validation and state-conflict errors keep their specific wording;
// everything else collapses into the generic retry message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidGroupName):
		return http.StatusBadRequest, "Group name must be between 2 and 100 characters"
	case errors.Is(err, application.ErrInvalidDescription):
		return http.StatusBadRequest, "Group description must be 500 characters or fewer"
	case errors.Is(err, driven.ErrGroupNotFound):
		return http.StatusNotFound, "Group not found"
	case errors.Is(err, application.ErrAlreadyMember):
		return http.StatusConflict, "You're already in this group!"
	case errors.Is(err, application.ErrGroupFull):
		return http.StatusConflict, "Group is full!"
	case errors.Is(err, application.ErrSessionTooShort):
		return http.StatusBadRequest, "Sessions under one second are not saved"
	case errors.Is(err, application.ErrLedgerOverflow):
		return http.StatusConflict, "Could not update totals. Please try again."
	case errors.Is(err, application.ErrInvalidEmail):
		return http.StatusBadRequest, "Please enter a valid email address"
	case errors.Is(err, application.ErrWeakPassword):
		return http.StatusBadRequest, "Password must be at least 8 characters"
	case errors.Is(err, driven.ErrEmailTaken):
		return http.StatusConflict, "Email already in use. Try logging in instead."
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, application.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many attempts. Please try again later."
	case errors.Is(err, application.ErrNotAuthenticated):
		return http.StatusUnauthorized, "You must be logged in"
	default:
		return http.StatusInternalServerError, genericErrorMessage
	}
}

// UserResponse is the JSON representation of the signed-in account. The
// email is masked for display.
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// GroupResponse is the JSON representation of a group in the listing.
type GroupResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DescriptionHTML string `json:"description_html,omitempty"`
	CreatedBy       string `json:"created_by"`
	CreatedAt       string `json:"created_at"`
	MemberCount     int    `json:"member_count"`
	MaxSize         int    `json:"max_size"`
	Occupancy       string `json:"occupancy"`
	IsMember        bool   `json:"is_member"`
}

// LedgerResponse is the JSON representation of one ledger record.
type LedgerResponse struct {
	TotalMS   int64  `json:"total_ms"`
	Formatted string `json:"formatted"`
	Sessions  int64  `json:"sessions"`
}

// SessionResponse is the JSON representation of one committed session.
type SessionResponse struct {
	DurationMS int64  `json:"duration_ms"`
	Formatted  string `json:"formatted"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Timestamp  int64  `json:"timestamp"`
}

// StopwatchResponse is the JSON representation of the stopwatch view.
type StopwatchResponse struct {
	Running   bool              `json:"running"`
	ElapsedMS int64             `json:"elapsed_ms"`
	Formatted string            `json:"formatted"`
	Today     LedgerResponse    `json:"today"`
	AllTime   LedgerResponse    `json:"all_time"`
	History   []SessionResponse `json:"history"`
}

// MessageResponse carries a transient user-facing confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CredentialsRequest is the JSON body for signup and signin.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetRequest is the JSON body for the password reset endpoint.
type ResetRequest struct {
	Email string `json:"email"`
}

// CreateGroupRequest is the JSON body for the create group endpoint.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// toUserResponse converts a domain User to its JSON representation.
func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.MaskedEmail(),
		EmailVerified: u.EmailVerified,
	}
}

// toGroupResponse converts a domain Group to its JSON representation from
// the viewpoint of the given user.
func toGroupResponse(g model.Group, userID string) GroupResponse {
	return GroupResponse{
		ID:              g.ID,
		Name:            g.Name,
		DescriptionHTML: RenderMarkdown(g.Description),
		CreatedBy:       g.CreatedBy,
		CreatedAt:       g.CreatedAt.UTC().Format(time.RFC3339),
		MemberCount:     len(g.Members),
		MaxSize:         g.MaxSize,
		Occupancy:       fmt.Sprintf("%d/%d", len(g.Members), g.MaxSize),
		IsMember:        g.HasMember(userID),
	}
}

// toLedgerResponse converts a ledger record to its JSON representation.
func toLedgerResponse(rec model.LedgerRecord) LedgerResponse {
	return LedgerResponse{
		TotalMS:   rec.Total,
		Formatted: application.FormatClock(rec.Total),
		Sessions:  rec.Sessions,
	}
}

// toStopwatchResponse converts a stopwatch status to its JSON representation.
func toStopwatchResponse(st application.StopwatchStatus) StopwatchResponse {
	history := make([]SessionResponse, 0, len(st.History))
	for _, entry := range st.History {
		history = append(history, SessionResponse{
			DurationMS: entry.Duration,
			Formatted:  entry.Formatted,
			Date:       entry.Date,
			Time:       entry.Time,
			Timestamp:  entry.Timestamp,
		})
	}

	return StopwatchResponse{
		Running:   st.Running,
		ElapsedMS: st.ElapsedMS,
		Formatted: st.Formatted,
		Today:     toLedgerResponse(st.Today),
		AllTime:   toLedgerResponse(st.AllTime),
		History:   history,
	}
}
