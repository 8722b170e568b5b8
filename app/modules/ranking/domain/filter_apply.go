package rankingdomain

import "fmt"

// recordPredicate reports whether a record satisfies one filter spec item.
type recordPredicate func(Record) bool

// ScopeToChartType returns a copy of spec without the items whose filter
// group does not apply to chartType.
func ScopeToChartType(spec FilterSpec, catalog FilterCatalog, chartType ChartType) (FilterSpec, error) {
	groups, err := spec.FilterGroups(catalog)
	if err != nil {
		return FilterSpec{}, err
	}
	scoped := spec
	for _, g := range groups {
		if chartType.HasFilterGroup(g.ID) {
			continue
		}
		scoped, err = scoped.WithoutFilterGroup(catalog, g.ID)
		if err != nil {
			return FilterSpec{}, err
		}
	}
	return scoped, nil
}

// ApplyFilterSpec keeps the records matching every item of spec. When
// chartType is non-nil, items of filter groups the chart type does not use
// are skipped. Input order is preserved and the input slice is not modified.
func ApplyFilterSpec(records []Record, spec FilterSpec, catalog FilterCatalog, chartType *ChartType) ([]Record, error) {
	if chartType != nil {
		scoped, err := ScopeToChartType(spec, catalog, *chartType)
		if err != nil {
			return nil, err
		}
		spec = scoped
	}

	predicates := make([]recordPredicate, 0, len(spec.items))
	for _, item := range spec.items {
		p, err := itemPredicate(item, catalog)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		keep := true
		for _, p := range predicates {
			if !p(r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}

func itemPredicate(item FilterSpecItem, catalog FilterCatalog) (recordPredicate, error) {
	f, err := catalog.Filter(item.FilterID)
	if err != nil {
		return nil, err
	}

	// sameGroup returns the record's filters that belong to f's group.
	sameGroup := func(r Record) []Filter {
		var out []Filter
		for _, id := range r.FilterIDs {
			rf, err := catalog.Filter(id)
			if err != nil {
				continue
			}
			if rf.FilterGroupID == f.FilterGroupID {
				out = append(out, rf)
			}
		}
		return out
	}

	switch item.Modifier {
	case ModifierIs, ModifierIsNot:
		var has func(Record) bool
		switch f.UsageType {
		case FilterUsageChoosable:
			has = func(r Record) bool { return r.HasFilter(f.ID) }
		case FilterUsageImplied:
			implying := catalog.ImplyingFilters(f.ID)
			has = func(r Record) bool {
				for _, id := range r.FilterIDs {
					if _, ok := implying[id]; ok {
						return true
					}
				}
				return false
			}
		default:
			return nil, fmt.Errorf("filter %d usage type %q: %w", f.ID, f.UsageType, ErrInvalidFilterSpec)
		}
		if item.Modifier == ModifierIs {
			return has, nil
		}
		return func(r Record) bool {
			return len(sameGroup(r)) > 0 && !has(r)
		}, nil

	case ModifierGreaterOrEqual, ModifierLessOrEqual:
		if f.NumericValue == nil {
			return nil, fmt.Errorf("filter %d has no numeric value: %w", f.ID, ErrInvalidFilterSpec)
		}
		bound := *f.NumericValue
		ge := item.Modifier == ModifierGreaterOrEqual
		return func(r Record) bool {
			for _, rf := range sameGroup(r) {
				if rf.NumericValue == nil {
					continue
				}
				if ge && *rf.NumericValue >= bound || !ge && *rf.NumericValue <= bound {
					return true
				}
			}
			return false
		}, nil
	}
	return nil, fmt.Errorf("modifier %q: %w", item.Modifier, ErrInvalidFilterSpec)
}
