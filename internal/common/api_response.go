package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/models/dtos"
)

// RespondSuccess writes data inside the portal's JSON envelope. The
// optional status code defaults to 200.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	respond(w, statusOr(http.StatusOK, statusCode), dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: elapsed(initTime),
		Data:         data,
	})
}

// RespondError writes an error envelope. An empty message falls back to
// err's text; the status code defaults to 500.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := statusOr(http.StatusInternalServerError, statusCode)
	if message == "" && err != nil {
		message = err.Error()
	}
	if err != nil {
		logging.Warn("Portal API error", "status_code", code, "error", err)
	}
	respond(w, code, dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: elapsed(initTime),
	})
}

func statusOr(def int, codes []int) int {
	if len(codes) > 0 {
		return codes[0]
	}
	return def
}

func elapsed(since time.Time) string {
	return fmt.Sprintf("%dms", time.Since(since).Milliseconds())
}

func respond(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Encoding portal API response failed", "error", err)
	}
}
