package route

import "github.com/mumbaitransit/mumbaitransit/internal/textsearch"

// DefaultPageSize is the number of search results shown per page.
const DefaultPageSize = 12

// Search returns the routes whose id, name, origin or destination contain
// query, ignoring case. Queries shorter than two characters match nothing.
// Matches keep their input order and the full match set is returned.
func Search(query string, routes []*Route) []*Route {
	q, ok := textsearch.Prepare(query)
	if !ok {
		return []*Route{}
	}

	out := make([]*Route, 0)
	for _, r := range routes {
		if textsearch.ContainsAny(q, r.ID, r.Name, r.From, r.To) {
			out = append(out, r)
		}
	}
	return out
}

// Page truncates routes to at most limit entries. A non-positive limit means
// DefaultPageSize.
func Page(routes []*Route, limit int) []*Route {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if len(routes) <= limit {
		return routes
	}
	return routes[:limit]
}
