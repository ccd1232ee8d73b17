// Package jsonutil provides helper functions for JSON responses.
//
// Form handlers answer non-browser clients with these helpers so every
// error body has the same shape: {"error": message} for whole-form
// failures and {"fieldErrors": {...}, "fields": {...}} for field errors.
package jsonutil

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, map[string]any{
//	    "ok": true,
//	    "id": id,
//	})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes an error response with the given status code.
// The response body is {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// InternalError writes a 500 Internal Server Error response.
// Do not expose internal details to clients; log the actual error separately.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// FieldErrors writes a 400 Bad Request response with per-field messages and,
// when fields is non-nil, the submitted values to re-populate the form.
//
// Usage:
//
//	jsonutil.FieldErrors(w, map[string]string{
//	    "email": "Invalid email",
//	    "name":  "",
//	}, map[string]string{"email": "nope"})
func FieldErrors(w http.ResponseWriter, fieldErrors map[string]string, fields map[string]string) {
	body := map[string]any{"fieldErrors": fieldErrors}
	if fields != nil {
		body["fields"] = fields
	}
	JSON(w, http.StatusBadRequest, body)
}
