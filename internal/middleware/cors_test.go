package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	var reached int
	h := CORS([]string{"https://app.example/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllow   string
		wantReached int
	}{
		{name: "listed origin", method: http.MethodGet, origin: "https://app.example", wantStatus: http.StatusOK, wantAllow: "https://app.example", wantReached: 1},
		{name: "unlisted origin", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK, wantReached: 1},
		{name: "preflight", method: http.MethodOptions, origin: "https://app.example", preflight: true, wantStatus: http.StatusNoContent, wantAllow: "https://app.example"},
		{name: "bare options passes through", method: http.MethodOptions, origin: "https://app.example", wantStatus: http.StatusOK, wantAllow: "https://app.example", wantReached: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached = 0
			req := httptest.NewRequest(tc.method, "/v1/me", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantAllow)
			}
			if reached != tc.wantReached {
				t.Fatalf("handler reached %d times, want %d", reached, tc.wantReached)
			}
		})
	}
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("Origin", "https://any.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q, want *", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("credentials must not be advertised for wildcard origins")
	}
}
