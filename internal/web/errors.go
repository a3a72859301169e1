package web

// errors.go provides unified error responses: technical details are
// logged server-side with the request ID; clients get a user-friendly
// message with a stable code they can quote to support.

import (
	"encoding/json"
	"net/http"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/logging"
)

// ErrorResponse is the JSON body for API errors.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := importer.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	resp := ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	}
	if se, ok := err.(*importer.StructuralError); ok {
		resp.Details = se.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
