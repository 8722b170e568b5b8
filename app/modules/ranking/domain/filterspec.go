package rankingdomain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Modifier selects how a filter spec item is matched against records.
type Modifier string

const (
	ModifierIs             Modifier = ""
	ModifierIsNot          Modifier = "n"
	ModifierGreaterOrEqual Modifier = "ge"
	ModifierLessOrEqual    Modifier = "le"
)

func parseModifier(code string) (Modifier, bool) {
	switch m := Modifier(code); m {
	case ModifierIs, ModifierIsNot, ModifierGreaterOrEqual, ModifierLessOrEqual:
		return m, true
	}
	return "", false
}

// FilterSpecItem is one token of a filter spec.
type FilterSpecItem struct {
	FilterID int64
	Modifier Modifier
}

func (i FilterSpecItem) String() string {
	return strconv.FormatInt(i.FilterID, 10) + string(i.Modifier)
}

// FilterSpec is a parsed dash-separated filter spec such as "1-4n-9ge".
// The zero value is the empty spec.
type FilterSpec struct {
	items []FilterSpecItem
}

var filterSpecToken = regexp.MustCompile(`^(\d+)([a-z]*)$`)

// ParseFilterSpec parses raw into its items. The empty string is a valid,
// empty spec.
func ParseFilterSpec(raw string) (FilterSpec, error) {
	if raw == "" {
		return FilterSpec{}, nil
	}

	tokens := strings.Split(raw, "-")
	items := make([]FilterSpecItem, 0, len(tokens))
	for _, token := range tokens {
		m := filterSpecToken.FindStringSubmatch(token)
		if m == nil {
			return FilterSpec{}, fmt.Errorf("token %q: %w", token, ErrInvalidFilterSpec)
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return FilterSpec{}, fmt.Errorf("token %q: %w", token, ErrInvalidFilterSpec)
		}
		modifier, ok := parseModifier(m[2])
		if !ok {
			return FilterSpec{}, fmt.Errorf("token %q: unknown modifier: %w", token, ErrInvalidFilterSpec)
		}
		items = append(items, FilterSpecItem{FilterID: id, Modifier: modifier})
	}
	return FilterSpec{items: items}, nil
}

// NewFilterSpec builds a spec from already validated items.
func NewFilterSpec(items ...FilterSpecItem) FilterSpec {
	return FilterSpec{items: append([]FilterSpecItem(nil), items...)}
}

// Items returns a copy of the spec's items in order.
func (s FilterSpec) Items() []FilterSpecItem {
	return append([]FilterSpecItem(nil), s.items...)
}

func (s FilterSpec) IsEmpty() bool {
	return len(s.items) == 0
}

// String renders the spec back into its token form.
func (s FilterSpec) String() string {
	parts := make([]string, len(s.items))
	for i, item := range s.items {
		parts[i] = item.String()
	}
	return strings.Join(parts, "-")
}

// FilterGroups resolves the owning filter group of every item, in item order.
// Duplicates are kept.
func (s FilterSpec) FilterGroups(catalog FilterCatalog) ([]FilterGroup, error) {
	groups := make([]FilterGroup, 0, len(s.items))
	for _, item := range s.items {
		f, err := catalog.Filter(item.FilterID)
		if err != nil {
			return nil, err
		}
		g, err := catalog.FilterGroup(f.FilterGroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// WithoutFilterGroup returns a copy of the spec with the first item belonging
// to groupID removed. The receiver is left untouched.
func (s FilterSpec) WithoutFilterGroup(catalog FilterCatalog, groupID int64) (FilterSpec, error) {
	for i, item := range s.items {
		f, err := catalog.Filter(item.FilterID)
		if err != nil {
			return FilterSpec{}, err
		}
		if f.FilterGroupID != groupID {
			continue
		}
		items := make([]FilterSpecItem, 0, len(s.items)-1)
		items = append(items, s.items[:i]...)
		items = append(items, s.items[i+1:]...)
		return FilterSpec{items: items}, nil
	}
	return NewFilterSpec(s.items...), nil
}

// MergeFilterSpecs joins a and b with a dash. An empty spec on either side
// returns the other one unchanged.
func MergeFilterSpecs(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "-" + b
}
