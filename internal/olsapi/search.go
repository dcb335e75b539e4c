package olsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
)

// DefaultSearchRows is the search page size applied when the caller
// does not ask for one.
const DefaultSearchRows = 10

// TermSearchQuery mirrors the /api/search parameters.
type TermSearchQuery struct {
	Query           string
	Ontology        string
	Exact           bool
	IncludeObsolete bool
	Rows            int
	Start           int
}

// SearchTerms performs a lexical term search. Hits are returned in the
// upstream relevance order (descending score) together with the total
// number of matches.
func (c *Client) SearchTerms(ctx context.Context, q TermSearchQuery) ([]apptype.SearchHit, int, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, 0, fmt.Errorf("%w: search query must not be empty", ErrValidation)
	}
	rows := q.Rows
	if rows <= 0 {
		rows = DefaultSearchRows
	}
	start := q.Start
	if start < 0 {
		start = 0
	}
	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("start", strconv.Itoa(start))
	params.Set("exact", strconv.FormatBool(q.Exact))
	params.Set("obsoletes", strconv.FormatBool(q.IncludeObsolete))
	if q.Ontology != "" {
		params.Set("ontology", strings.ToLower(q.Ontology))
	}

	body, err := c.get(ctx, "search", epSearch, params)
	if err != nil {
		return nil, 0, err
	}

	// Legacy Solr shape first, v2 elements as fallback.
	var solr solrEnvelope
	if err := json.Unmarshal(body, &solr); err != nil {
		return nil, 0, fmt.Errorf("%w: search response: %v", ErrMalformed, err)
	}
	docs := solr.Response.Docs
	total := solr.Response.NumFound
	if docs == nil {
		env, err := decodePaged(body)
		if err != nil {
			return nil, 0, err
		}
		docs = env.Elements
		total = env.TotalElements
	}

	hits := make([]apptype.SearchHit, 0, len(docs))
	for _, doc := range docs {
		hit, err := normalizeHit(doc)
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, hit)
	}
	if total < len(hits) {
		total = len(hits)
	}
	return hits, total, nil
}
