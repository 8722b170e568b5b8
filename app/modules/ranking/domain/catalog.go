package rankingdomain

import (
	"fmt"
	"maps"
	"slices"
)

// FilterCatalog resolves filter ids for filter spec operations.
type FilterCatalog interface {
	Filter(id int64) (Filter, error)
	FilterGroup(id int64) (FilterGroup, error)
	// ImplyingFilters returns every filter that directly or transitively
	// implies the given filter.
	ImplyingFilters(id int64) map[int64]struct{}
}

// Catalog is an in-memory FilterCatalog built from one bulk load of a game's
// filter groups, filters and implication edges.
type Catalog struct {
	groups    map[int64]FilterGroup
	filters   map[int64]Filter
	impliedBy map[int64][]int64
}

var _ FilterCatalog = (*Catalog)(nil)

// NewCatalog indexes the given rows. Edges referencing unknown filters are kept;
// they simply never match a record.
func NewCatalog(groups []FilterGroup, filters []Filter, implications []FilterImplication) *Catalog {
	c := &Catalog{
		groups:    make(map[int64]FilterGroup, len(groups)),
		filters:   make(map[int64]Filter, len(filters)),
		impliedBy: make(map[int64][]int64),
	}
	for _, g := range groups {
		c.groups[g.ID] = g
	}
	for _, f := range filters {
		c.filters[f.ID] = f
	}
	for _, e := range implications {
		c.impliedBy[e.ToFilterID] = append(c.impliedBy[e.ToFilterID], e.FromFilterID)
	}
	return c
}

// MergeCatalogs combines catalogs of several games. Filter and group ids are
// unique across games, so the union resolves each game's filters unchanged.
func MergeCatalogs(catalogs ...*Catalog) *Catalog {
	merged := &Catalog{
		groups:    make(map[int64]FilterGroup),
		filters:   make(map[int64]Filter),
		impliedBy: make(map[int64][]int64),
	}
	for _, c := range catalogs {
		maps.Copy(merged.groups, c.groups)
		maps.Copy(merged.filters, c.filters)
		for to, from := range c.impliedBy {
			merged.impliedBy[to] = append(merged.impliedBy[to], from...)
		}
	}
	return merged
}

// Filter returns the filter with the given id.
func (c *Catalog) Filter(id int64) (Filter, error) {
	f, ok := c.filters[id]
	if !ok {
		return Filter{}, fmt.Errorf("filter %d: %w", id, ErrFilterNotFound)
	}
	return f, nil
}

// FilterGroup returns the filter group with the given id.
func (c *Catalog) FilterGroup(id int64) (FilterGroup, error) {
	g, ok := c.groups[id]
	if !ok {
		return FilterGroup{}, fmt.Errorf("filter group %d: %w", id, ErrFilterGroupNotFound)
	}
	return g, nil
}

// ImplyingFilters walks the implication graph backwards from id. The filter
// itself is not part of the result unless a cycle leads back to it.
func (c *Catalog) ImplyingFilters(id int64) map[int64]struct{} {
	seen := make(map[int64]struct{})
	queue := slices.Clone(c.impliedBy[id])
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}
		queue = append(queue, c.impliedBy[next]...)
	}
	return seen
}

// Filters returns the catalog's filters in a group, ordered by id.
func (c *Catalog) Filters(groupID int64) []Filter {
	var out []Filter
	for _, f := range c.filters {
		if f.FilterGroupID == groupID {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b Filter) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
