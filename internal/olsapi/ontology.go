package olsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/mcp-ols-go/internal/apptype"
)

// DefaultOntologyPageSize is the listing page size applied when the
// caller does not ask for one.
const DefaultOntologyPageSize = 20

// SearchOntologies lists ontologies, optionally filtered by a search
// string. Returns the page of ontologies, the total match count and
// whether further pages exist.
func (c *Client) SearchOntologies(ctx context.Context, search string, page, size int) ([]apptype.Ontology, int, bool, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultOntologyPageSize
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if strings.TrimSpace(search) != "" {
		params.Set("search", search)
	}

	body, err := c.get(ctx, "ontologies", epOntologies, params)
	if err != nil {
		return nil, 0, false, err
	}
	env, err := decodePaged(body)
	if err != nil {
		return nil, 0, false, err
	}
	ontologies := make([]apptype.Ontology, 0, len(env.Elements))
	for _, el := range env.Elements {
		o, err := normalizeOntology(el)
		if err != nil {
			return nil, 0, false, err
		}
		ontologies = append(ontologies, o)
	}
	return ontologies, env.TotalElements, env.hasMore(), nil
}

// GetOntology fetches metadata for a single ontology by identifier.
// Unknown identifiers fail with ErrNotFound.
func (c *Client) GetOntology(ctx context.Context, id string) (*apptype.Ontology, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, fmt.Errorf("%w: ontology id must not be empty", ErrValidation)
	}
	endpoint := epOntologies + "/" + url.PathEscape(id)
	body, err := c.get(ctx, "ontology", endpoint, nil)
	if err != nil {
		return nil, err
	}
	o, err := normalizeOntology(body)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
