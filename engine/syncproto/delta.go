package syncproto

import "sort"

// Delta lists record IDs that changed between two versions of the corpus.
type Delta struct {
	Added   []string `json:"added"`
	Updated []string `json:"updated"`
	Removed []string `json:"removed"`
}

// IsEmpty reports whether the delta carries no changes.
func (d Delta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Count returns the total number of changed records.
func (d Delta) Count() int {
	return len(d.Added) + len(d.Updated) + len(d.Removed)
}

// CalculateDelta diffs two id-to-checksum maps. Output slices are sorted
// so deltas are reproducible for the same inputs.
func CalculateDelta(oldSet, newSet map[string]string) Delta {
	var d Delta
	for id, sum := range newSet {
		prev, ok := oldSet[id]
		switch {
		case !ok:
			d.Added = append(d.Added, id)
		case prev != sum:
			d.Updated = append(d.Updated, id)
		}
	}
	for id := range oldSet {
		if _, ok := newSet[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Updated)
	sort.Strings(d.Removed)
	return d
}
