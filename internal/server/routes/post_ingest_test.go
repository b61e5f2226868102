package routes

import (
	"net/http"
	"testing"

	"github.com/docugraph/backend/internal/server/middleware"
)

func newIngestApp() *middleware.App {
	return &middleware.App{
		GraphStore:  &fakeGraphStore{},
		VectorStore: &fakeVectorStore{},
		AiClient:    &fakeAIClient{},
	}
}

func TestIngestHandlerAcceptsExplicitZeroOverlap(t *testing.T) {
	body := `{"source_id":"doc-1","text":"Marie Curie discovered radium.","collection":"papers","chunk_size":100,"chunk_overlap":0}`

	c, rec := newTestContext(t, http.MethodPost, "/api/ingest", body, newIngestApp())
	if err := IngestHandler(c); err != nil {
		t.Fatalf("IngestHandler() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestIngestHandlerDefaultsOverlapWhenAbsent(t *testing.T) {
	// The default overlap of 200 does not fit a chunk size of 100, so
	// omitting the field must be rejected while an explicit 0 is not.
	body := `{"source_id":"doc-1","text":"Marie Curie discovered radium.","collection":"papers","chunk_size":100}`

	c, rec := newTestContext(t, http.MethodPost, "/api/ingest", body, newIngestApp())
	if err := IngestHandler(c); err != nil {
		t.Fatalf("IngestHandler() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIngestHandlerRejectsOverlapNotBelowSize(t *testing.T) {
	body := `{"source_id":"doc-1","text":"Marie Curie discovered radium.","collection":"papers","chunk_size":100,"chunk_overlap":100}`

	c, rec := newTestContext(t, http.MethodPost, "/api/ingest", body, newIngestApp())
	if err := IngestHandler(c); err != nil {
		t.Fatalf("IngestHandler() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
