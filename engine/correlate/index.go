// Package correlate links equivalent fault codes across controller and
// engine brands, so a technician who knows a DeepSea code can find the
// matching Cummins or ComAp fault. Correlations come from the curated
// relatedCodes lists in the corpus, optionally enriched from a graph store.
package correlate

import (
	"sort"
	"strings"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
	"github.com/EmersonEIMS/generator-oracle/pkg/fn"
)

// Similarity tiers for corpus-derived correlations. Codes in the same
// category are closer equivalents than cross-category references.
const (
	similaritySameCategory  = 75
	similarityCrossCategory = 50
)

// Entry is one cross-brand equivalent of a fault code.
type Entry struct {
	Brand           string   `json:"brand"`
	Code            string   `json:"code"`
	Similarity      int      `json:"similarity"`
	Description     string   `json:"description"`
	CommonSymptoms  []string `json:"commonSymptoms,omitempty"`
	SharedSolutions []string `json:"sharedSolutions,omitempty"`
}

// Index is an immutable correlation lookup, rebuilt with each corpus
// snapshot. Lookups on unknown codes return nothing rather than an error.
type Index struct {
	byCode map[string][]Entry
}

// BuildIndex derives correlations from each record's related-code list and
// merges in extra entries (keyed by normalized code) from an external graph.
// Relations are made symmetric: if A lists B, B also correlates to A.
func BuildIndex(records []domain.FaultCodeRecord, extra map[string][]Entry) *Index {
	byKey := make(map[string]domain.FaultCodeRecord, len(records))
	byCode := make(map[string][]domain.FaultCodeRecord, len(records))
	for _, r := range records {
		r.Code = domain.NormalizeCode(r.Code)
		byKey[r.Key()] = r
		byCode[r.Code] = append(byCode[r.Code], r)
	}

	idx := &Index{byCode: make(map[string][]Entry)}
	for _, r := range records {
		from := domain.NormalizeCode(r.Code)
		for _, rel := range r.RelatedCodes {
			for _, other := range byCode[domain.NormalizeCode(rel)] {
				if other.Key() == r.Key() {
					continue
				}
				idx.add(from, entryFor(r, other))
				idx.add(other.Code, entryFor(other, r))
			}
		}
	}
	for code, entries := range extra {
		code = domain.NormalizeCode(code)
		for _, e := range entries {
			e.Code = domain.NormalizeCode(e.Code)
			idx.add(code, e)
		}
	}

	for code, entries := range idx.byCode {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Similarity != entries[j].Similarity {
				return entries[i].Similarity > entries[j].Similarity
			}
			return entries[i].Brand < entries[j].Brand
		})
		idx.byCode[code] = entries
	}
	return idx
}

// GraphEdges derives the correlation edges of a corpus as a nested map of
// record keys to similarity, the shape GraphStore.SaveBatch persists.
func GraphEdges(records []domain.FaultCodeRecord) map[string]map[string]int {
	byCode := make(map[string][]domain.FaultCodeRecord, len(records))
	for _, r := range records {
		r.Code = domain.NormalizeCode(r.Code)
		byCode[r.Code] = append(byCode[r.Code], r)
	}

	edges := make(map[string]map[string]int)
	put := func(from, to domain.FaultCodeRecord) {
		sim := similarityCrossCategory
		if strings.EqualFold(from.Category, to.Category) {
			sim = similaritySameCategory
		}
		if edges[from.Key()] == nil {
			edges[from.Key()] = make(map[string]int)
		}
		edges[from.Key()][to.Key()] = sim
	}
	for _, r := range records {
		for _, rel := range r.RelatedCodes {
			for _, other := range byCode[domain.NormalizeCode(rel)] {
				if other.Key() == r.Key() {
					continue
				}
				put(r, other)
				put(other, r)
			}
		}
	}
	return edges
}

// Correlated returns the cross-brand equivalents of a code, most similar
// first. Unknown codes yield an empty slice.
func (idx *Index) Correlated(code string) []Entry {
	return idx.byCode[domain.NormalizeCode(code)]
}

// add appends an entry, dropping (brand, code) duplicates.
func (idx *Index) add(code string, e Entry) {
	for _, have := range idx.byCode[code] {
		if have.Code == e.Code && strings.EqualFold(have.Brand, e.Brand) {
			return
		}
	}
	idx.byCode[code] = append(idx.byCode[code], e)
}

func entryFor(from, to domain.FaultCodeRecord) Entry {
	sim := similarityCrossCategory
	if strings.EqualFold(from.Category, to.Category) {
		sim = similaritySameCategory
	}
	return Entry{
		Brand:           to.Brand,
		Code:            to.Code,
		Similarity:      sim,
		Description:     to.Title,
		CommonSymptoms:  intersect(from.Symptoms, to.Symptoms),
		SharedSolutions: sharedSolutionTexts(from, to),
	}
}

// intersect returns the case-insensitive overlap of two symptom lists,
// preserving a's order and spelling.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[strings.ToLower(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}

func sharedSolutionTexts(from, to domain.FaultCodeRecord) []string {
	text := func(s domain.Solution) string { return s.Text }
	return intersect(fn.Map(from.Solutions, text), fn.Map(to.Solutions, text))
}
