// Package shared centralizes the JSON response envelope and domain error
// translation so every handler shapes responses the same way.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "slated/pkg/domain-errors"
)

// Responder writes the API's response envelopes. In non-production mode the
// failure envelope carries the raw error text as a diagnostic aid.
type Responder struct {
	production bool
}

// NewResponder builds a Responder. Pass production=true to suppress
// diagnostic detail in failure envelopes.
func NewResponder(production bool) *Responder {
	return &Responder{production: production}
}

type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// Success writes {success:true, message, data} with the given status.
func (r *Responder) Success(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Message: message, Data: data})
}

// Error translates a domain error into {success:false, message} with the
// status mapped from its code. Unrecognized errors become opaque 500s.
func (r *Responder) Error(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	env := failureEnvelope{Success: false, Message: dErrors.MessageOf(err)}
	if !r.production {
		env.Detail = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(env)
}
