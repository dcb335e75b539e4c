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

// GetTerm resolves a term by full IRI, short form (DUO_0000017) or OBO
// curie (DUO:0000017). When ontology is non-empty the defining record
// from that ontology is preferred; otherwise the first record wins.
func (c *Client) GetTerm(ctx context.Context, ontology, id string) (*apptype.Term, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: term id must not be empty", ErrValidation)
	}
	params := url.Values{}
	params.Set("id", id)
	if ontology != "" {
		params.Set("ontology", strings.ToLower(ontology))
	}
	body, err := c.get(ctx, "terms", epTerms, params)
	if err != nil {
		return nil, err
	}
	var env halEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: term response: %v", ErrMalformed, err)
	}
	if len(env.Embedded.Terms) == 0 {
		return nil, fmt.Errorf("%w: term %q", ErrNotFound, id)
	}
	want := strings.ToLower(ontology)
	var chosen *apptype.Term
	for _, raw := range env.Embedded.Terms {
		t, err := normalizeTerm(raw)
		if err != nil {
			return nil, err
		}
		if chosen == nil {
			chosen = &t
		}
		if want != "" && strings.ToLower(t.Ontology) == want {
			chosen = &t
			break
		}
	}
	if want != "" && strings.ToLower(chosen.Ontology) != want {
		return nil, fmt.Errorf("%w: term %q in ontology %q", ErrNotFound, id, ontology)
	}
	return chosen, nil
}

// Relatives fetches one page of direct children or parents of a term.
// Returns the page of terms in upstream order and whether further pages
// exist.
func (c *Client) Relatives(ctx context.Context, ontology, iri string, rel Relation, page int, includeObsolete bool) ([]apptype.Term, bool, error) {
	if !rel.valid() {
		return nil, false, fmt.Errorf("%w: relation %q not allowed", ErrValidation, rel)
	}
	ontology = strings.ToLower(strings.TrimSpace(ontology))
	if ontology == "" || strings.TrimSpace(iri) == "" {
		return nil, false, fmt.Errorf("%w: ontology and term iri must not be empty", ErrValidation)
	}
	if page < 0 {
		page = 0
	}
	endpoint := fmt.Sprintf("%s/%s/classes/%s/%s", epOntologies, url.PathEscape(ontology), encodeIRI(iri), rel)
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(c.cfg.PageSize))
	params.Set("includeObsoleteEntities", strconv.FormatBool(includeObsolete))

	body, err := c.get(ctx, string(rel), endpoint, params)
	if err != nil {
		return nil, false, err
	}
	env, err := decodePaged(body)
	if err != nil {
		return nil, false, err
	}
	terms := make([]apptype.Term, 0, len(env.Elements))
	for _, el := range env.Elements {
		t, err := normalizeTerm(el)
		if err != nil {
			return nil, false, err
		}
		terms = append(terms, t)
	}
	return terms, env.hasMore(), nil
}
