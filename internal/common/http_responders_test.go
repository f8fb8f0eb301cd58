package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendHttpFailResponse(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	SendHttpFailResponse(recorder, request, http.StatusBadRequest, "failed", errors.New("invalid_input"))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %v, got %v", http.StatusBadRequest, recorder.Code)
	}
	var response HttpResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if response.Success {
		t.Fatalf("expected success to be false")
	}
	if response.Data != "invalid_input" {
		t.Fatalf("expected data to be the error code, got %v", response.Data)
	}
}

func TestSendHttpFailResponseWithoutErrorCode(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	SendHttpFailResponse(recorder, request, http.StatusInternalServerError, "failed")
	var response HttpResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if response.Data != "generic_error" {
		t.Fatalf("expected generic_error, got %v", response.Data)
	}
}

func TestSendHttpSuccessResponse(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	SendHttpSuccessResponse(recorder, request, http.StatusCreated, "created", map[string]string{"id": "abc"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %v, got %v", http.StatusCreated, recorder.Code)
	}
	var response struct {
		Data    map[string]string `json:"data"`
		Success bool              `json:"success"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if !response.Success || response.Data["id"] != "abc" {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestSendHttpAttachmentResponse(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	SendHttpAttachmentResponse(recorder, request, "text/csv", "cases.csv", []byte("a,b\n"))
	if got := recorder.Header().Get("Content-Disposition"); got != "attachment; filename=cases.csv" {
		t.Fatalf("unexpected content disposition: %s", got)
	}
	if recorder.Body.String() != "a,b\n" {
		t.Fatalf("unexpected body: %q", recorder.Body.String())
	}
}
