package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ontoloviz/ontoloviz/pkg/buildinfo"
	"github.com/ontoloviz/ontoloviz/pkg/config"
	"github.com/ontoloviz/ontoloviz/pkg/obo"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), config.Default(), logger)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/build", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
	var info buildinfo.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", info.Version, buildinfo.Version)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestOntologies(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/ontologies")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []obo.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(obo.Catalogue) {
		t.Errorf("len(entries) = %d, want %d", len(entries), len(obo.Catalogue))
	}
}

func TestBuild(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"rows": [
			{"id": "C01", "label": "Infections", "count": "0"},
			{"id": "C01.001", "label": "Bacterial", "count": "5"}
		],
		"config": {"propagation": {"color": "global"}},
		"formats": ["json", "tsv"]
	}`
	resp := post(t, srv, body)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, b)
	}

	var got BuildResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID == "" || got.Branches != 1 || got.Nodes != 2 {
		t.Errorf("response = %+v, want one branch with two nodes", got)
	}
	if len(got.Trace) == 0 {
		t.Error("trace missing")
	}
	if !strings.HasPrefix(got.Artifacts["tsv"], "ID\tParent") {
		t.Errorf("tsv artifact = %.30q", got.Artifacts["tsv"])
	}
}

func TestBuildErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"rows": [], "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"no input", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad config", `{"rows": [{"id": "A"}], "config": {"propagation": {"counts": "sideways"}}}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"bad format", `{"rows": [{"id": "A"}], "formats": ["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown ontology", `{"ontology": "nope"}`, http.StatusNotFound, "ONTOLOGY_NOT_FOUND"},
		{"custom url", `{"ontology_url": "https://example.org/x.obo"}`, http.StatusNotImplemented, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Message)
			}
			if e.RequestID == "" {
				t.Error("request_id missing")
			}
		})
	}
}
