package olsapi

import (
	"encoding/json"
	"testing"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringOrListAcceptsBothShapes(t *testing.T) {
	var s stringOrList
	require.NoError(t, json.Unmarshal([]byte(`"apoptosis"`), &s))
	assert.Equal(t, "apoptosis", s.first())

	require.NoError(t, json.Unmarshal([]byte(`["first","second"]`), &s))
	assert.Equal(t, "first", s.first())

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Equal(t, "", s.first())
}

func TestNormalizeTermLegacyFields(t *testing.T) {
	raw := []byte(`{
		"iri": "http://purl.obolibrary.org/obo/GO_0006915",
		"label": "apoptotic process",
		"description": ["A programmed cell death process."],
		"synonyms": ["apoptosis"],
		"ontology_name": "go",
		"short_form": "GO_0006915",
		"obo_id": "GO:0006915",
		"is_obsolete": false
	}`)
	term, err := normalizeTerm(raw)
	require.NoError(t, err)
	assert.Equal(t, "go", term.Ontology)
	assert.Equal(t, "http://purl.obolibrary.org/obo/GO_0006915", term.IRI)
	assert.Equal(t, "apoptotic process", term.Label)
	assert.Equal(t, "A programmed cell death process.", term.Definition)
	assert.Equal(t, []string{"apoptosis"}, term.Synonyms)
	assert.Equal(t, "GO:0006915", term.OboID)
	assert.False(t, term.Obsolete)
}

func TestNormalizeTermV2Fields(t *testing.T) {
	raw := []byte(`{
		"iri": "http://purl.obolibrary.org/obo/HP_0000118",
		"label": ["Phenotypic abnormality"],
		"definition": "A phenotypic abnormality.",
		"synonym": ["Organ abnormality"],
		"ontologyId": "hp",
		"shortForm": "HP_0000118",
		"curie": "HP:0000118",
		"isObsolete": true,
		"directParent": ["http://purl.obolibrary.org/obo/HP_0000001"]
	}`)
	term, err := normalizeTerm(raw)
	require.NoError(t, err)
	assert.Equal(t, "hp", term.Ontology)
	assert.Equal(t, "Phenotypic abnormality", term.Label)
	assert.Equal(t, "A phenotypic abnormality.", term.Definition)
	assert.Equal(t, []string{"Organ abnormality"}, term.Synonyms)
	assert.Equal(t, "HP:0000118", term.OboID)
	assert.True(t, term.Obsolete)
	assert.Equal(t, []string{"http://purl.obolibrary.org/obo/HP_0000001"}, term.ParentIRIs)
}

func TestNormalizeTermMissingIdentityFails(t *testing.T) {
	_, err := normalizeTerm([]byte(`{"label": "orphan"}`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = normalizeTerm([]byte(`{"iri": "http://example.org/t1"}`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = normalizeTerm([]byte(`{not json`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestNormalizeTermRoundTripPreservesIdentity(t *testing.T) {
	raw := []byte(`{"iri":"http://purl.obolibrary.org/obo/GO_0006915","label":"apoptotic process","ontology_name":"go"}`)
	term, err := normalizeTerm(raw)
	require.NoError(t, err)

	encoded, err := json.Marshal(term)
	require.NoError(t, err)
	var decoded apptype.Term
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, term.IRI, decoded.IRI)
	assert.Equal(t, term.Label, decoded.Label)
	assert.Equal(t, term.Ontology, decoded.Ontology)
}

func TestNormalizeOntology(t *testing.T) {
	raw := []byte(`{
		"ontologyId": "go",
		"title": "Gene Ontology",
		"description": "An ontology for gene function.",
		"version": "2024-01-01",
		"numberOfClasses": 43000
	}`)
	o, err := normalizeOntology(raw)
	require.NoError(t, err)
	assert.Equal(t, "go", o.ID)
	assert.Equal(t, "Gene Ontology", o.Title)
	assert.Equal(t, 43000, o.NumberOfTerms)

	_, err = normalizeOntology([]byte(`{"title": "nameless"}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestNormalizeHit(t *testing.T) {
	raw := []byte(`{
		"iri": "http://purl.obolibrary.org/obo/GO_0006915",
		"label": "apoptotic process",
		"ontology_name": "go",
		"short_form": "GO_0006915",
		"description": ["A programmed cell death process."],
		"score": 12.5
	}`)
	hit, err := normalizeHit(raw)
	require.NoError(t, err)
	assert.Equal(t, "go", hit.Ontology)
	assert.Equal(t, 12.5, hit.Score)
	assert.Equal(t, "A programmed cell death process.", hit.Description)

	_, err = normalizeHit([]byte(`{"label": "no identity"}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestPagedEnvelopeHasMore(t *testing.T) {
	env, err := decodePaged([]byte(`{"elements":[],"page":0,"totalPages":3,"totalElements":41}`))
	require.NoError(t, err)
	assert.True(t, env.hasMore())

	env, err = decodePaged([]byte(`{"elements":[],"page":2,"totalPages":3,"totalElements":41}`))
	require.NoError(t, err)
	assert.False(t, env.hasMore())

	_, err = decodePaged([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformed)
}
