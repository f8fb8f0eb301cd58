package common

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetBearerAuthMiddleware(t *testing.T) {
	handler := GetBearerAuthMiddleware(GetNoopServiceLog(), "secret-token")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]int{
		"":                    http.StatusUnauthorized,
		"Basic abc":           http.StatusUnauthorized,
		"Bearer wrong":        http.StatusForbidden,
		"Bearer secret-token": http.StatusNoContent,
	}
	for header, expectedStatus := range cases {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code != expectedStatus {
			t.Errorf("header[%s]: expected %v, got %v", header, expectedStatus, recorder.Code)
		}
	}
}

func TestGetIpAllowlistMiddleware(t *testing.T) {
	cidrs, _, err := ParseCidrs([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseCidrs returned error: %v", err)
	}
	handler := GetIpAllowlistMiddleware(GetNoopServiceLog(), cidrs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.RemoteAddr = "10.1.2.3:5555"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, allowed)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected allowed ip to pass, got %v", recorder.Code)
	}

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.RemoteAddr = "192.168.1.1:5555"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, denied)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected denied ip to be forbidden, got %v", recorder.Code)
	}
}

func TestGetRequestLoggerMiddlewareInjectsLogger(t *testing.T) {
	var hasLogger bool
	handler := GetRequestLoggerMiddleware(GetNoopServiceLog())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasLogger = r.Context().Value(HttpContextLogger).(HttpRequestLogger)
		if r.Context().Value(HttpContextRequestId) != "trace-1" {
			t.Errorf("expected request id to come from X-Trace-Id")
		}
	}))
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Trace-Id", "trace-1")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	if !hasLogger {
		t.Fatalf("expected request logger in context")
	}
}

func TestIsIpAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("192.168.0.0/16")
	if !isIpAllowed(net.ParseIP("192.168.10.10"), []*net.IPNet{network}) {
		t.Fatalf("expected ip to be allowed")
	}
	if isIpAllowed(net.ParseIP("10.0.0.1"), []*net.IPNet{network}) {
		t.Fatalf("expected ip to be denied")
	}
}
