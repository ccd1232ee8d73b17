package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]bool{"ok": true},
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
		{
			name:       "502 with data",
			status:     http.StatusBadGateway,
			data:       map[string]string{"error": "upstream"},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"upstream"}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			body := strings.TrimSpace(rec.Body.String())
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter, string)
		wantStatus int
	}{
		{"InternalError", InternalError, http.StatusInternalServerError},
		{"Error 502", func(w http.ResponseWriter, m string) { Error(w, http.StatusBadGateway, m) }, http.StatusBadGateway},
		{"Error 400", func(w http.ResponseWriter, m string) { Error(w, http.StatusBadRequest, m) }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "something broke")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json unmarshal error: %v", err)
			}
			if got["error"] != "something broke" {
				t.Errorf("error = %q, want %q", got["error"], "something broke")
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	FieldErrors(rec,
		map[string]string{"email": "Invalid email", "name": ""},
		map[string]string{"email": "nope", "name": "John"},
	)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var got struct {
		FieldErrors map[string]string `json:"fieldErrors"`
		Fields      map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal error: %v", err)
	}

	wantErrors := map[string]string{"email": "Invalid email", "name": ""}
	if diff := cmp.Diff(wantErrors, got.FieldErrors); diff != "" {
		t.Errorf("fieldErrors mismatch (-want +got):\n%s", diff)
	}
	if got.Fields["email"] != "nope" {
		t.Errorf("fields.email = %q, want %q", got.Fields["email"], "nope")
	}
}

func TestFieldErrors_NoFields(t *testing.T) {
	rec := httptest.NewRecorder()
	FieldErrors(rec, map[string]string{"comment": "Message cannot be empty"}, nil)

	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal error: %v", err)
	}
	if _, ok := got["fields"]; ok {
		t.Error("body has fields key, want it omitted when nil")
	}
}
