package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tina-Mai/storm/internal/service"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]int{"total_budget": 300})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}
	var result map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result["total_budget"] != 300 {
		t.Errorf("unexpected body: %v", result)
	}
}

func TestWriteEngineError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", &bandit.ConfigurationError{Field: "num_regions", Value: 1, Reason: "too few"}, http.StatusBadRequest},
		{"invalid state", &bandit.InvalidStateError{Op: "step", State: bandit.StateExhausted}, http.StatusConflict},
		{"runner active", service.ErrRunnerActive, http.StatusConflict},
		{"runner inactive", fmt.Errorf("stop: %w", service.ErrRunnerInactive), http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeEngineError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] != tt.err.Error() {
				t.Errorf("error body = %q, want %q", body["error"], tt.err.Error())
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"num_regions":4,"total_budget":200}`))
	var v struct {
		NumRegions  int `json:"num_regions"`
		TotalBudget int `json:"total_budget"`
	}
	if err := decodeJSON(req, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.NumRegions != 4 || v.TotalBudget != 200 {
		t.Errorf("got %+v", v)
	}

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	if err := decodeJSON(bad, &v); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
