package apptype

// SearchTermsArgs represents the arguments for the search_terms tool
type SearchTermsArgs struct {
	Query           string `json:"query" jsonschema:"Search query text."`
	Ontology        string `json:"ontology,omitempty" jsonschema:"Optional ontology ID to restrict the search (e.g. 'efo', 'go', 'hp'); may be a comma-separated list of IDs."`
	Exact           bool   `json:"exact,omitempty" jsonschema:"Whether to perform exact matching."`
	IncludeObsolete bool   `json:"includeObsolete,omitempty" jsonschema:"Include obsolete terms in results."`
	Rows            int    `json:"rows,omitempty" jsonschema:"Maximum number of results to return (default 10)."`
	Start           int    `json:"start,omitempty" jsonschema:"Result offset for pagination."`
}

// SearchTermsResult is the structured output of search_terms
type SearchTermsResult struct {
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

// SearchOntologiesArgs represents the arguments for the search_ontologies tool
type SearchOntologiesArgs struct {
	Query string `json:"query,omitempty" jsonschema:"Optional search query to filter ontologies."`
	Page  int    `json:"page,omitempty" jsonschema:"Page number for pagination (default 0)."`
	Size  int    `json:"size,omitempty" jsonschema:"Number of results per page (default 20)."`
}

// SearchOntologiesResult is the structured output of search_ontologies
type SearchOntologiesResult struct {
	Ontologies []Ontology `json:"ontologies"`
	Total      int        `json:"total"`
	HasMore    bool       `json:"hasMore"`
}

// GetOntologyArgs represents the arguments for the get_ontology_info tool
type GetOntologyArgs struct {
	Ontology string `json:"ontology" jsonschema:"Ontology identifier (e.g. 'efo', 'go', 'mondo')."`
}

// GetTermArgs represents the arguments for the get_term_info tool
type GetTermArgs struct {
	ID       string `json:"id" jsonschema:"Term identifier: full IRI (http://purl.obolibrary.org/obo/DUO_0000017), short form (DUO_0000017) or OBO curie (DUO:0000017)."`
	Ontology string `json:"ontology,omitempty" jsonschema:"Optional ontology ID; when set, the term is resolved within that ontology."`
}

// HierarchyArgs represents the arguments for the get_term_children and
// get_term_ancestors tools.
type HierarchyArgs struct {
	Ontology        string `json:"ontology" jsonschema:"Ontology identifier the term belongs to."`
	TermIRI         string `json:"termIri" jsonschema:"Full IRI of the starting term."`
	MaxDepth        int    `json:"maxDepth,omitempty" jsonschema:"Maximum traversal depth (default 1 = direct relatives only)."`
	IncludeObsolete bool   `json:"includeObsolete,omitempty" jsonschema:"Include obsolete terms in the traversal."`
}

// HierarchyResult is the structured output of the hierarchy tools.
// Terms appear in breadth-first discovery order, each exactly once.
type HierarchyResult struct {
	Terms []TermNode `json:"terms"`
}

// FindSimilarArgs represents the arguments for the find_similar_terms tool
type FindSimilarArgs struct {
	Query    string `json:"query" jsonschema:"Free-text query or term label to find similar terms for."`
	Ontology string `json:"ontology,omitempty" jsonschema:"Optional ontology ID to scope candidates to."`
	TopK     int    `json:"topK,omitempty" jsonschema:"Maximum number of similar terms to return (default 10)."`
}

// FindSimilarResult is the structured output of find_similar_terms.
// Degraded is true when embeddings were unavailable and the results are
// the unscored lexical candidate pool.
type FindSimilarResult struct {
	Results  []SimilarTerm `json:"results"`
	Degraded bool          `json:"degraded"`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name               string `json:"name"`
	Version            string `json:"version"`
	Revision           string `json:"revision"`
	BuildDate          string `json:"buildDate"`
	BaseURL            string `json:"baseUrl"`
	EmbeddingsProvider string `json:"embeddingsProvider,omitempty"`
}
