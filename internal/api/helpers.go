package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizdesk/backend/internal/entity"
)

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	description := ""
	if originErr != nil {
		description = originErr.Error()
	}

	slog.ErrorContext(ctx, "api error", "error", description, "message", msgToSend)
	SendJSON(ctx, w, code, ErrorResponse{Message: msgToSend, Description: description})
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		code = http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)

		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

// sendMappedErr translates the sentinel errors of the domain into HTTP
// statuses so every handler maps them the same way.
func sendMappedErr(ctx context.Context, w http.ResponseWriter, err error, msgToSend string) {
	switch {
	case errors.Is(err, entity.ErrNoActor), errors.Is(err, entity.ErrUnauthenticated):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Authentication required")
	case errors.Is(err, entity.ErrNotCached), errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Record not found")
	case errors.Is(err, entity.ErrInvalidArgument):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, "Invalid input")
	case errors.Is(err, entity.ErrDriveNotLinked):
		SendJSONErr(ctx, w, http.StatusConflict, err, "Google Drive is not connected")
	case errors.Is(err, entity.ErrRemote):
		SendJSONErr(ctx, w, http.StatusBadGateway, err, msgToSend)
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, msgToSend)
	}
}
