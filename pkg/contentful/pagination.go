package contentful

import "fmt"

// Page is one page of a paginated collection. Total is the authoritative
// size of the whole collection at query time, not of this page.
type Page[T any] struct {
	Items []T
	Total int
}

// Hard cap on page requests per collection fetch. The loop below already
// fails on an empty page, so this only trips when the upstream keeps
// inflating the reported total.
const maxPageRequests = 1000

// collectAll fetches pages starting at 1 and accumulates items until the
// count reaches the reported total. The total is only known once the
// first page has been fetched, so at least one request is always issued.
// An empty page while still below total means the upstream total is
// inconsistent with its items; that fails rather than looping forever.
func collectAll[T any](fetch func(page int) (Page[T], error)) ([]T, error) {
	var items []T
	for page := 1; ; page++ {
		if page > maxPageRequests {
			return nil, fmt.Errorf("%w: collection not exhausted after %d page requests", ErrUpstreamData, maxPageRequests)
		}

		p, err := fetch(page)
		if err != nil {
			return nil, err
		}
		items = append(items, p.Items...)

		if len(items) >= p.Total {
			return items, nil
		}
		if len(p.Items) == 0 {
			return nil, fmt.Errorf("%w: empty page %d with %d of %d items accumulated", ErrUpstreamData, page, len(items), p.Total)
		}
	}
}
