package engine

// ============================================================================
// FILTERS — Label Filtering via RecordView
// ============================================================================
// Single pass over the view. Returns a SubView (index list into parent) —
// zero data copy. Unlike a dashboard "no filter = everything" default, an
// empty selection selects nothing.
// ============================================================================

// FilterByLabel returns a view of the rows whose label is in labels.
// Row order and columns are preserved.
func FilterByLabel(view RecordView, labels []string) RecordView {
	return FilterBy(view, view.LabelColumn(), labels)
}

// FilterBy returns a view of the rows whose cell in column is one of values.
// Matching is exact and case-sensitive.
func FilterBy(view RecordView, column string, values []string) RecordView {
	set := toSet(values)

	n := view.Len()
	indices := make([]int, 0, n)
	if len(set) > 0 {
		for i := 0; i < n; i++ {
			if set[view.Cell(i, column)] {
				indices = append(indices, i)
			}
		}
	}
	return newSubView(view, indices)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
