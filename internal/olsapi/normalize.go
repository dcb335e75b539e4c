package olsapi

import (
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
)

// The OLS API answers in three envelope styles depending on endpoint
// generation: the v2 "elements" wrapper, the HAL "_embedded" wrapper
// and the legacy Solr search wrapper. Everything is flattened here into
// the apptype records plus a hasMore marker; field-name drift between
// generations (ontology_name vs ontologyId, string vs list values) is
// absorbed by the raw* types below.

// stringOrList tolerates fields that are either a JSON string or an
// array of strings.
type stringOrList []string

func (s *stringOrList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = nil
		return nil
	}
	if b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = stringOrList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

func (s stringOrList) first() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// pagedEnvelope is the v2 pagination wrapper.
type pagedEnvelope struct {
	Elements      []json.RawMessage `json:"elements"`
	Page          int               `json:"page"`
	NumElements   int               `json:"numElements"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int               `json:"totalElements"`
}

func (e *pagedEnvelope) hasMore() bool { return e.Page+1 < e.TotalPages }

func decodePaged(body []byte) (*pagedEnvelope, error) {
	var env pagedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &env, nil
}

// halEnvelope is the HAL wrapper used by /api/terms.
type halEnvelope struct {
	Embedded struct {
		Terms []json.RawMessage `json:"terms"`
	} `json:"_embedded"`
	Page struct {
		Number        int `json:"number"`
		TotalPages    int `json:"totalPages"`
		TotalElements int `json:"totalElements"`
	} `json:"page"`
}

// solrEnvelope is the legacy wrapper used by /api/search.
type solrEnvelope struct {
	Response struct {
		NumFound int               `json:"numFound"`
		Docs     []json.RawMessage `json:"docs"`
	} `json:"response"`
}

type rawTerm struct {
	IRI            string       `json:"iri"`
	Label          stringOrList `json:"label"`
	Description    stringOrList `json:"description"`
	Definition     stringOrList `json:"definition"`
	Synonyms       []string     `json:"synonyms"`
	Synonym        []string     `json:"synonym"`
	OntologyName   string       `json:"ontology_name"`
	OntologyID     string       `json:"ontologyId"`
	ShortForm      string       `json:"short_form"`
	ShortFormV2    string       `json:"shortForm"`
	OboID          string       `json:"obo_id"`
	Curie          string       `json:"curie"`
	IsObsolete     bool         `json:"is_obsolete"`
	IsObsoleteV2   bool         `json:"isObsolete"`
	DirectParent   stringOrList `json:"directParent"`
	DirectChildren stringOrList `json:"directChildren"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalizeTerm maps a raw term record onto apptype.Term. Records
// missing the IRI or the ontology code are rejected.
func normalizeTerm(raw json.RawMessage) (apptype.Term, error) {
	var rt rawTerm
	if err := json.Unmarshal(raw, &rt); err != nil {
		return apptype.Term{}, fmt.Errorf("%w: term record: %v", ErrMalformed, err)
	}
	ontology := firstNonEmpty(rt.OntologyName, rt.OntologyID)
	if rt.IRI == "" || ontology == "" {
		return apptype.Term{}, fmt.Errorf("%w: term record missing iri or ontology code", ErrMalformed)
	}
	synonyms := rt.Synonyms
	if len(synonyms) == 0 {
		synonyms = rt.Synonym
	}
	return apptype.Term{
		Ontology:   ontology,
		IRI:        rt.IRI,
		ShortForm:  firstNonEmpty(rt.ShortForm, rt.ShortFormV2),
		OboID:      firstNonEmpty(rt.OboID, rt.Curie),
		Label:      rt.Label.first(),
		Synonyms:   synonyms,
		Definition: firstNonEmpty(rt.Definition.first(), rt.Description.first()),
		Obsolete:   rt.IsObsolete || rt.IsObsoleteV2,
		ParentIRIs: rt.DirectParent,
		ChildIRIs:  rt.DirectChildren,
	}, nil
}

type rawOntology struct {
	OntologyID      string       `json:"ontologyId"`
	Title           stringOrList `json:"title"`
	Description     stringOrList `json:"description"`
	Version         string       `json:"version"`
	Homepage        string       `json:"homepage"`
	PreferredPrefix string       `json:"preferredPrefix"`
	NumberOfTerms   int          `json:"number_of_terms"`
	NumberOfClasses int          `json:"numberOfClasses"`
}

func normalizeOntology(raw json.RawMessage) (apptype.Ontology, error) {
	var ro rawOntology
	if err := json.Unmarshal(raw, &ro); err != nil {
		return apptype.Ontology{}, fmt.Errorf("%w: ontology record: %v", ErrMalformed, err)
	}
	if ro.OntologyID == "" {
		return apptype.Ontology{}, fmt.Errorf("%w: ontology record missing ontologyId", ErrMalformed)
	}
	terms := ro.NumberOfTerms
	if terms == 0 {
		terms = ro.NumberOfClasses
	}
	return apptype.Ontology{
		ID:              ro.OntologyID,
		Title:           ro.Title.first(),
		Description:     ro.Description.first(),
		Version:         ro.Version,
		Homepage:        ro.Homepage,
		PreferredPrefix: ro.PreferredPrefix,
		NumberOfTerms:   terms,
	}, nil
}

type rawHit struct {
	IRI          string       `json:"iri"`
	Label        stringOrList `json:"label"`
	OntologyName string       `json:"ontology_name"`
	OntologyID   string       `json:"ontologyId"`
	ShortForm    string       `json:"short_form"`
	Description  stringOrList `json:"description"`
	Score        float64      `json:"score"`
}

func normalizeHit(raw json.RawMessage) (apptype.SearchHit, error) {
	var rh rawHit
	if err := json.Unmarshal(raw, &rh); err != nil {
		return apptype.SearchHit{}, fmt.Errorf("%w: search hit: %v", ErrMalformed, err)
	}
	ontology := firstNonEmpty(rh.OntologyName, rh.OntologyID)
	if rh.IRI == "" || ontology == "" {
		return apptype.SearchHit{}, fmt.Errorf("%w: search hit missing iri or ontology code", ErrMalformed)
	}
	return apptype.SearchHit{
		IRI:         rh.IRI,
		Label:       rh.Label.first(),
		Ontology:    ontology,
		ShortForm:   rh.ShortForm,
		Description: rh.Description.first(),
		Score:       rh.Score,
	}, nil
}
