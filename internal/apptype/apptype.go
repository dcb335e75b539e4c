package apptype

// Ontology is a normalized snapshot of an ontology's metadata.
type Ontology struct {
	ID              string `json:"ontologyId"`
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Version         string `json:"version,omitempty"`
	Homepage        string `json:"homepage,omitempty"`
	PreferredPrefix string `json:"preferredPrefix,omitempty"`
	NumberOfTerms   int    `json:"numberOfTerms,omitempty"`
}

// Term is a normalized term record. The (Ontology, IRI) pair is its
// unique key.
type Term struct {
	Ontology   string   `json:"ontology"`
	IRI        string   `json:"iri"`
	ShortForm  string   `json:"shortForm,omitempty"`
	OboID      string   `json:"oboId,omitempty"`
	Label      string   `json:"label"`
	Synonyms   []string `json:"synonyms,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Obsolete   bool     `json:"obsolete,omitempty"`
	ParentIRIs []string `json:"parentIris,omitempty"`
	ChildIRIs  []string `json:"childIris,omitempty"`
}

// SearchHit is a single lexical search result. Hits arrive ordered by
// descending relevance score and that order is preserved end to end.
type SearchHit struct {
	IRI         string  `json:"iri"`
	Label       string  `json:"label"`
	Ontology    string  `json:"ontology"`
	ShortForm   string  `json:"shortForm,omitempty"`
	Description string  `json:"description,omitempty"`
	Score       float64 `json:"score"`
}

// TermNode is a term discovered during hierarchy traversal, annotated
// with its breadth-first discovery depth (1 = direct parent/child).
type TermNode struct {
	Term  Term `json:"term"`
	Depth int  `json:"depth"`
}

// SimilarTerm pairs a candidate term with its similarity score in
// [0, 1] relative to the query (1 = identical).
type SimilarTerm struct {
	Term  SearchHit `json:"term"`
	Score float64   `json:"score"`
}
