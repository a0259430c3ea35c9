package store

import (
	"sort"
	"strings"
	"unicode"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
)

// Confidence tiers for search matches.
const (
	ConfidenceExact    = 100
	ConfidencePrefix   = 90
	ConfidenceCategory = 40

	// Keyword matches score 50-85 proportional to the matched-term fraction.
	keywordFloor = 50
	keywordSpan  = 35

	// DefaultSearchLimit caps results when the caller passes limit <= 0.
	DefaultSearchLimit = 20
)

// SearchResult pairs a record with its match confidence (0-100).
type SearchResult struct {
	Record     domain.FaultCodeRecord `json:"record"`
	Confidence int                    `json:"confidence"`
}

// Search ranks records against a free-text query. Confidence: exact code
// match 100, code prefix 90, title/description keyword match 50-85
// proportional to matched terms, category match 40. Results sort by
// confidence descending, ties broken by code ascending, truncated to limit.
func (s *Snapshot) Search(query string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	codeQ := domain.NormalizeCode(query)
	terms := searchTerms(query)
	lowerQ := strings.ToLower(query)

	results := make([]SearchResult, 0, limit)
	for _, r := range s.records {
		conf := scoreRecord(r, codeQ, lowerQ, terms)
		if conf <= 0 {
			continue
		}
		results = append(results, SearchResult{Record: r, Confidence: conf})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Record.Code < results[j].Record.Code
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreRecord returns the best applicable confidence tier for one record.
func scoreRecord(r domain.FaultCodeRecord, codeQ, lowerQ string, terms []string) int {
	if codeQ != "" && r.Code == codeQ {
		return ConfidenceExact
	}
	best := 0
	if codeQ != "" && strings.HasPrefix(r.Code, codeQ) {
		best = ConfidencePrefix
	}

	if len(terms) > 0 {
		title := strings.ToLower(r.Title)
		desc := strings.ToLower(r.Description)
		matched := 0
		for _, t := range terms {
			if strings.Contains(title, t) || strings.Contains(desc, t) {
				matched++
			}
		}
		if matched > 0 {
			conf := keywordFloor + matched*keywordSpan/len(terms)
			if conf > best {
				best = conf
			}
		}
	}

	if best < ConfidenceCategory && strings.Contains(strings.ToLower(r.Category), lowerQ) {
		best = ConfidenceCategory
	}
	return best
}

// searchTerms tokenizes a query into lowercase keyword terms, dropping
// punctuation and terms of two characters or fewer.
func searchTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
