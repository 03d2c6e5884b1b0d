package dashboard

import (
	"sort"

	"dwellacore/pkg/domain"
)

// DefaultPageSize is the page size ClampPage substitutes for a non-positive
// size. It matches the dashboard's default list length.
const DefaultPageSize = 10

// Predicate reports whether an item passes a filter.
type Predicate[T any] func(T) bool

// Comparator orders two items: negative when a sorts before b, positive when
// after, zero when equal. Equal items keep their original relative order.
type Comparator[T any] func(a, b T) int

// Page is a 1-indexed page window.
type Page struct {
	Index int
	Size  int
}

// Spec configures one pass through the filter/sort/paginate pipeline.
// Predicates are ANDed; an empty set matches everything. A nil Compare
// preserves input order. A nil Page returns all matches as a single page.
type Spec[T any] struct {
	Predicates []Predicate[T]
	Compare    Comparator[T]
	Page       *Page
}

// QueryResult carries one page of items plus the counts the UI needs to
// render pagination controls.
type QueryResult[T any] struct {
	Items      []T
	TotalCount int
	PageCount  int
}

// Query filters, sorts, and paginates a collection. Requesting a page beyond
// the last returns empty items with correct counts, matching how the UI
// clamps navigation. A page index or size below 1 is a caller bug and
// returns InvalidPageRequestError; use ClampPage to normalize untrusted
// page state first.
func Query[T any](items []T, spec Spec[T]) (QueryResult[T], error) {
	if spec.Page != nil && (spec.Page.Index < 1 || spec.Page.Size < 1) {
		return QueryResult[T]{}, domain.InvalidPageRequestError{Index: spec.Page.Index, Size: spec.Page.Size}
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, spec.Predicates) {
			matched = append(matched, item)
		}
	}
	if spec.Compare != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return spec.Compare(matched[i], matched[j]) < 0
		})
	}

	total := len(matched)
	if spec.Page == nil {
		pages := 0
		if total > 0 {
			pages = 1
		}
		return QueryResult[T]{Items: matched, TotalCount: total, PageCount: pages}, nil
	}

	size := spec.Page.Size
	pages := (total + size - 1) / size
	start := (spec.Page.Index - 1) * size
	if start >= total {
		return QueryResult[T]{Items: []T{}, TotalCount: total, PageCount: pages}, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return QueryResult[T]{Items: matched[start:end], TotalCount: total, PageCount: pages}, nil
}

// ClampPage normalizes a page window so Query cannot fail on it: indexes
// below 1 become 1 and non-positive sizes become DefaultPageSize. Intended
// for production paths fed by untrusted UI state; development callers should
// let Query fail loudly instead.
func ClampPage(p Page) Page {
	if p.Index < 1 {
		p.Index = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

func matchesAll[T any](item T, predicates []Predicate[T]) bool {
	for _, pred := range predicates {
		if !pred(item) {
			return false
		}
	}
	return true
}
