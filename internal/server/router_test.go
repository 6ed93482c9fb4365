package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubHandler struct {
	routes []string
	hits   int
}

func (h *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits++
	w.WriteHeader(http.StatusOK)
}

func (h *stubHandler) Routes() []string { return h.routes }

func TestBasicRouter(t *testing.T) {
	t.Run("Handle Rejects Other Methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/callback", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Handler Mounts All Routes", func(t *testing.T) {
		router := NewBasicRouter()
		handler := &stubHandler{routes: []string{"/callback", "/done"}}
		router.Handler(handler)

		for _, path := range handler.routes {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200 for %s, got %d", path, rec.Code)
			}
		}
		if handler.hits != 2 {
			t.Errorf("expected handler to serve both routes, got %d hits", handler.hits)
		}
	})

	t.Run("Middleware Applied In Order", func(t *testing.T) {
		router := NewBasicRouter()
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		router.Use(tag("first"), tag("second"))
		router.Handle(http.MethodGet, "/callback", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback", nil))
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected middleware order [first second], got %v", order)
		}
	})
}
