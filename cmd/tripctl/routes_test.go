package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRunListSendsOwnerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Id") != "u1" {
			t.Errorf("missing owner header")
		}
		if r.URL.Path != "/api/routes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "MAIN" {
			t.Errorf("unexpected status filter %q", got)
		}
		_, _ = w.Write([]byte(`{"routes":[],"total":0}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runList(srv.URL, "u1", "MAIN", &out); err != nil {
		t.Fatalf("runList error: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected response body")
	}
}

func TestRunTransitionPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/routes/abc/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "MAIN" || body["title"] != "My Trip" {
			t.Errorf("unexpected payload %v", body)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := runTransition(srv.URL, "u1", "abc", "MAIN", "My Trip", &out); err != nil {
		t.Fatalf("runTransition error: %v", err)
	}
}

func TestErrorBodySurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Conflict"}`, http.StatusConflict)
	}))
	defer srv.Close()

	err := runDelete(srv.URL, "u1", "abc")
	if err == nil {
		t.Fatalf("expected error for 409")
	}
}
