package olsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solrSearchBody = `{
	"response": {
		"numFound": 2,
		"docs": [
			{"iri": "http://purl.obolibrary.org/obo/GO_0006915", "label": "apoptotic process", "ontology_name": "go", "short_form": "GO_0006915", "score": 9.1},
			{"iri": "http://purl.obolibrary.org/obo/GO_0097194", "label": "execution phase of apoptosis", "ontology_name": "go", "short_form": "GO_0097194", "score": 4.2}
		]
	}
}`

func TestSearchTerms(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(solrSearchBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	hits, total, err := c.SearchTerms(context.Background(), TermSearchQuery{
		Query:    "apoptosis",
		Ontology: "GO",
		Exact:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, hits, 2)
	assert.Equal(t, "apoptotic process", hits[0].Label)
	assert.Equal(t, "go", hits[0].Ontology)
	assert.Equal(t, 9.1, hits[0].Score)

	assert.Equal(t, "apoptosis", gotQuery["q"])
	assert.Equal(t, "go", gotQuery["ontology"], "ontology filter should be lowercased")
	assert.Equal(t, "true", gotQuery["exact"])
	assert.Equal(t, "false", gotQuery["obsoletes"])
	assert.Equal(t, "10", gotQuery["rows"], "default rows should apply")
	assert.Equal(t, "0", gotQuery["start"])
}

func TestSearchTermsEmptyQueryFailsValidation(t *testing.T) {
	c := NewClient(testConfig("http://127.0.0.1:1"))
	_, _, err := c.SearchTerms(context.Background(), TermSearchQuery{Query: "   "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSearchTermsElementsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"elements": [{"iri": "http://purl.obolibrary.org/obo/HP_0000118", "label": "Phenotypic abnormality", "ontologyId": "hp"}],
			"page": 0, "totalPages": 1, "totalElements": 1
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	hits, total, err := c.SearchTerms(context.Background(), TermSearchQuery{Query: "phenotype"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, hits, 1)
	assert.Equal(t, "hp", hits[0].Ontology)
}

func TestSearchOntologies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/ontologies", r.URL.Path)
		assert.Equal(t, "gene", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{
			"elements": [
				{"ontologyId": "go", "title": "Gene Ontology", "numberOfClasses": 43000},
				{"ontologyId": "geno", "title": "GENO ontology"}
			],
			"page": 0, "totalPages": 2, "totalElements": 3
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	ontologies, total, hasMore, err := c.SearchOntologies(context.Background(), "gene", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.True(t, hasMore)
	require.Len(t, ontologies, 2)
	assert.Equal(t, "go", ontologies[0].ID)
	assert.Equal(t, 43000, ontologies[0].NumberOfTerms)
}

func TestGetOntology(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/ontologies/go", r.URL.Path)
		_, _ = w.Write([]byte(`{"ontologyId": "go", "title": "Gene Ontology", "version": "2024-01-01"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	o, err := c.GetOntology(context.Background(), "GO")
	require.NoError(t, err)
	assert.Equal(t, "go", o.ID)
	assert.Equal(t, "Gene Ontology", o.Title)
}

func TestGetOntologyUnknownFailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.GetOntology(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetOntology(context.Background(), "")
	require.ErrorIs(t, err, ErrValidation)
}

const halTermsBody = `{
	"_embedded": {
		"terms": [
			{"iri": "http://purl.obolibrary.org/obo/DUO_0000017", "label": "population origins or ancestry research", "ontology_name": "swo", "obo_id": "DUO:0000017"},
			{"iri": "http://purl.obolibrary.org/obo/DUO_0000017", "label": "population origins or ancestry research", "ontology_name": "duo", "obo_id": "DUO:0000017"}
		]
	},
	"page": {"number": 0, "totalPages": 1, "totalElements": 2}
}`

func TestGetTermPrefersRequestedOntology(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/terms", r.URL.Path)
		assert.Equal(t, "DUO:0000017", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(halTermsBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	term, err := c.GetTerm(context.Background(), "duo", "DUO:0000017")
	require.NoError(t, err)
	assert.Equal(t, "duo", term.Ontology)
	assert.Equal(t, "DUO:0000017", term.OboID)
}

func TestGetTermFirstRecordWhenNoOntology(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(halTermsBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	term, err := c.GetTerm(context.Background(), "", "DUO:0000017")
	require.NoError(t, err)
	assert.Equal(t, "swo", term.Ontology)
}

func TestGetTermNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_embedded": {"terms": []}, "page": {"number": 0, "totalPages": 0, "totalElements": 0}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.GetTerm(context.Background(), "", "GO:9999999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetTermOntologyMismatchFailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(halTermsBody))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.GetTerm(context.Background(), "go", "DUO:0000017")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRelatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The double-encoded IRI arrives single-encoded after the
		// server's own path decoding.
		assert.Contains(t, r.URL.Path, "/api/v2/ontologies/hp/classes/")
		assert.Contains(t, r.URL.Path, "/children")
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "true", r.URL.Query().Get("includeObsoleteEntities"))
		_, _ = w.Write([]byte(`{
			"elements": [{"iri": "http://purl.obolibrary.org/obo/HP_0000152", "label": "Abnormality of head or neck", "ontologyId": "hp"}],
			"page": 1, "totalPages": 3, "totalElements": 42
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	terms, hasMore, err := c.Relatives(context.Background(), "HP", "http://purl.obolibrary.org/obo/HP_0000118", RelChildren, 1, true)
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, terms, 1)
	assert.Equal(t, "Abnormality of head or neck", terms[0].Label)
}

func TestRelativesValidation(t *testing.T) {
	c := NewClient(testConfig("http://127.0.0.1:1"))

	_, _, err := c.Relatives(context.Background(), "hp", "http://example.org/t", Relation("siblings"), 0, false)
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = c.Relatives(context.Background(), "", "http://example.org/t", RelParents, 0, false)
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = c.Relatives(context.Background(), "hp", "  ", RelParents, 0, false)
	require.ErrorIs(t, err, ErrValidation)
}
