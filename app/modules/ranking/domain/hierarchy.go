package rankingdomain

import (
	"cmp"
	"fmt"
	"slices"
)

// Hierarchy is an in-memory view of one game's chart groups and charts,
// built from a single bulk load.
type Hierarchy struct {
	groups      map[int64]ChartGroup
	childGroups map[int64][]ChartGroup
	charts      map[int64][]Chart
}

// NewHierarchy indexes groups by parent and charts by group, each sibling
// list sorted by its order field.
func NewHierarchy(groups []ChartGroup, charts []Chart) *Hierarchy {
	h := &Hierarchy{
		groups:      make(map[int64]ChartGroup, len(groups)),
		childGroups: make(map[int64][]ChartGroup),
		charts:      make(map[int64][]Chart),
	}
	for _, g := range groups {
		h.groups[g.ID] = g
		if g.ParentID != nil {
			h.childGroups[*g.ParentID] = append(h.childGroups[*g.ParentID], g)
		}
	}
	for _, c := range charts {
		h.charts[c.ChartGroupID] = append(h.charts[c.ChartGroupID], c)
	}
	for _, children := range h.childGroups {
		slices.SortFunc(children, func(a, b ChartGroup) int {
			return cmp.Or(cmp.Compare(a.OrderInParent, b.OrderInParent), cmp.Compare(a.ID, b.ID))
		})
	}
	for _, cs := range h.charts {
		slices.SortFunc(cs, func(a, b Chart) int {
			return cmp.Or(cmp.Compare(a.OrderInGroup, b.OrderInGroup), cmp.Compare(a.ID, b.ID))
		})
	}
	return h
}

// Group returns the chart group with the given id.
func (h *Hierarchy) Group(id int64) (ChartGroup, error) {
	g, ok := h.groups[id]
	if !ok {
		return ChartGroup{}, fmt.Errorf("chart group %d: %w", id, ErrChartGroupNotFound)
	}
	return g, nil
}

// ChildGroups returns the direct subgroups of a group in order.
func (h *Hierarchy) ChildGroups(groupID int64) []ChartGroup {
	return slices.Clone(h.childGroups[groupID])
}

// Charts returns the charts directly inside a group in order.
func (h *Hierarchy) Charts(groupID int64) []Chart {
	return slices.Clone(h.charts[groupID])
}

// Flatten lists every chart under groupID depth-first: subgroups by
// OrderInParent, then the group's own charts by OrderInGroup. A group holding
// both subgroups and charts, or a parent cycle, yields ErrInconsistentHierarchy.
func (h *Hierarchy) Flatten(groupID int64) ([]Chart, error) {
	if _, err := h.Group(groupID); err != nil {
		return nil, err
	}
	var out []Chart
	if err := h.flatten(groupID, make(map[int64]bool), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *Hierarchy) flatten(groupID int64, visiting map[int64]bool, out *[]Chart) error {
	if visiting[groupID] {
		return fmt.Errorf("chart group %d is its own ancestor: %w", groupID, ErrInconsistentHierarchy)
	}
	visiting[groupID] = true
	defer delete(visiting, groupID)

	children := h.childGroups[groupID]
	charts := h.charts[groupID]
	if len(children) > 0 && len(charts) > 0 {
		return fmt.Errorf("chart group %d has both subgroups and charts: %w", groupID, ErrInconsistentHierarchy)
	}

	for _, child := range children {
		if err := h.flatten(child.ID, visiting, out); err != nil {
			return err
		}
	}
	*out = append(*out, charts...)
	return nil
}

// HierarchyNode is one item of a nested hierarchy. Exactly one of Group and
// Chart is set; only group nodes have Items.
type HierarchyNode struct {
	Group *ChartGroup
	Chart *Chart
	Items []HierarchyNode
}

// Tree returns the items under groupID: its subgroups with their own items
// when it has any, otherwise its charts. Inconsistent groups fail like
// Flatten.
func (h *Hierarchy) Tree(groupID int64) ([]HierarchyNode, error) {
	if _, err := h.Group(groupID); err != nil {
		return nil, err
	}
	return h.tree(groupID, make(map[int64]bool))
}

func (h *Hierarchy) tree(groupID int64, visiting map[int64]bool) ([]HierarchyNode, error) {
	if visiting[groupID] {
		return nil, fmt.Errorf("chart group %d is its own ancestor: %w", groupID, ErrInconsistentHierarchy)
	}
	visiting[groupID] = true
	defer delete(visiting, groupID)

	children := h.childGroups[groupID]
	charts := h.charts[groupID]
	if len(children) > 0 && len(charts) > 0 {
		return nil, fmt.Errorf("chart group %d has both subgroups and charts: %w", groupID, ErrInconsistentHierarchy)
	}

	nodes := make([]HierarchyNode, 0, len(children)+len(charts))
	for _, child := range children {
		items, err := h.tree(child.ID, visiting)
		if err != nil {
			return nil, err
		}
		g := child
		nodes = append(nodes, HierarchyNode{Group: &g, Items: items})
	}
	for _, c := range charts {
		chart := c
		nodes = append(nodes, HierarchyNode{Chart: &chart})
	}
	return nodes, nil
}
