// Package diagnose turns a technician's free-text problem description into
// ranked fault-code candidates with repair guidance. Matching is fully
// deterministic: symptom keyword tables, brand alias detection, and a
// weighted score over the corpus. No calls leave the process.
package diagnose

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/EmersonEIMS/generator-oracle/engine/domain"
	"github.com/EmersonEIMS/generator-oracle/pkg/fn"
)

// Scoring weights. The base alone is never enough: a candidate must earn at
// least one bonus (brand, category, keyword, or severity agreement) or it is
// discarded, so a query with no recognizable signal matches nothing. The
// total is capped below 100 so only an exact code lookup can claim full
// confidence.
const (
	scoreBase            = 50
	scoreBrandMatch      = 20
	scoreCategoryMatch   = 10
	scoreTitleKeyword    = 6
	scoreDescKeyword     = 3
	scoreSeverityMatch   = 5
	scoreCap             = 99
	minConfidence        = 20
	maxMatches           = 20
	ConfidenceExactMatch = 100
)

// Corpus is the record source the analyzer matches against.
type Corpus interface {
	GetExactCode(code string) (domain.FaultCodeRecord, bool)
	Records() []domain.FaultCodeRecord
}

// MatchedCode is one ranked fault-code candidate.
type MatchedCode struct {
	Code        string   `json:"code"`
	Brand       string   `json:"brand"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
	Confidence  int      `json:"confidence"`
	Description string   `json:"description"`
	Causes      []string `json:"causes"`
	Solution    string   `json:"solution"`
	MatchReason string   `json:"matchReason"`
}

// DiagnosticResult is the full analysis of one query.
type DiagnosticResult struct {
	Query               string        `json:"query"`
	DetectedSymptoms    []string      `json:"detectedSymptoms"`
	DetectedBrand       string        `json:"detectedBrand,omitempty"`
	Confidence          int           `json:"confidence"`
	MatchedCodes        []MatchedCode `json:"matchedCodes"`
	AISummary           string        `json:"aiSummary"`
	RecommendedActions  []string      `json:"recommendedActions"`
	SafetyWarnings      []string      `json:"safetyWarnings"`
	EstimatedDifficulty string        `json:"estimatedDifficulty"`
	EstimatedTime       string        `json:"estimatedTime"`
	WhenToCallExpert    string        `json:"whenToCallExpert"`
}

// Analyzer matches queries against a corpus.
type Analyzer struct {
	corpus   Corpus
	logger   *slog.Logger
	pipeline fn.Stage[*analysis, *analysis]
}

// NewAnalyzer creates an Analyzer over the given corpus.
func NewAnalyzer(corpus Corpus, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{corpus: corpus, logger: logger}
	a.pipeline = fn.Pipeline(
		fn.TracedStage("diagnose.detect", fn.MapStage(a.detect)),
		fn.TracedStage("diagnose.match", fn.MapStage(a.match)),
		fn.TracedStage("diagnose.compose", fn.MapStage(a.compose)),
	)
	return a
}

// analysis is the working state threaded through the pipeline stages.
type analysis struct {
	query      string
	symptoms   []string
	brand      string
	exactMatch *domain.FaultCodeRecord
	matches    []MatchedCode
	result     DiagnosticResult
}

// Analyze runs the diagnostic pipeline. An empty or whitespace query yields
// an empty result with confidence 0, never an error.
func (a *Analyzer) Analyze(ctx context.Context, query string) DiagnosticResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return DiagnosticResult{
			AISummary:        emptyQuerySummary,
			WhenToCallExpert: expertDefault,
		}
	}

	r := a.pipeline(ctx, &analysis{query: query})
	st, err := r.Unwrap()
	if err != nil {
		// Stages are pure; this path is unreachable unless a stage changes.
		a.logger.Error("diagnose: pipeline failed", "error", err)
		return DiagnosticResult{Query: query}
	}
	a.logger.Info("diagnose: analyzed query",
		"symptoms", len(st.result.DetectedSymptoms),
		"brand", st.result.DetectedBrand,
		"matches", len(st.result.MatchedCodes),
		"confidence", st.result.Confidence)
	return st.result
}

func (a *Analyzer) detect(st *analysis) *analysis {
	st.symptoms = DetectSymptoms(st.query)
	st.brand = DetectBrand(st.query)
	for _, code := range ExtractCodes(st.query) {
		if rec, ok := a.corpus.GetExactCode(code); ok {
			st.exactMatch = &rec
			break
		}
	}
	return st
}

func (a *Analyzer) match(st *analysis) *analysis {
	if st.exactMatch != nil {
		st.matches = []MatchedCode{toMatch(*st.exactMatch, ConfidenceExactMatch, "Exact code match")}
		return st
	}

	cats := relevantCategories(st.symptoms)
	queryWords := queryKeywords(st.query)

	for _, rec := range a.corpus.Records() {
		if st.brand != "" && !strings.Contains(strings.ToLower(rec.Brand), strings.ToLower(st.brand)) {
			continue
		}
		if len(cats) > 0 && !categoryMatches(rec.Category, cats) {
			continue
		}
		conf, evidence := a.score(rec, st, queryWords)
		if !evidence || conf < minConfidence {
			continue
		}
		st.matches = append(st.matches, toMatch(rec, conf, matchReason(st.symptoms, rec)))
	}

	sort.Slice(st.matches, func(i, j int) bool {
		if st.matches[i].Confidence != st.matches[j].Confidence {
			return st.matches[i].Confidence > st.matches[j].Confidence
		}
		return st.matches[i].Code < st.matches[j].Code
	})
	if len(st.matches) > maxMatches {
		st.matches = st.matches[:maxMatches]
	}
	return st
}

func (a *Analyzer) compose(st *analysis) *analysis {
	conf := 0
	if len(st.matches) > 0 {
		conf = st.matches[0].Confidence
	}
	st.result = DiagnosticResult{
		Query:               st.query,
		DetectedSymptoms:    st.symptoms,
		DetectedBrand:       st.brand,
		Confidence:          conf,
		MatchedCodes:        st.matches,
		AISummary:           summarize(st.symptoms, st.brand, st.matches),
		RecommendedActions:  recommendActions(st.symptoms, st.matches),
		SafetyWarnings:      safetyWarnings(st.symptoms),
		EstimatedDifficulty: estimateDifficulty(st.symptoms),
		EstimatedTime:       estimateTime(st.symptoms),
		WhenToCallExpert:    expertGuidance(st.symptoms),
	}
	return st
}

// score computes a candidate's confidence from brand, symptom category,
// keyword, and severity agreement. The second return reports whether the
// candidate earned any bonus at all; a bare base score is not a match.
func (a *Analyzer) score(rec domain.FaultCodeRecord, st *analysis, queryWords []string) (int, bool) {
	conf := scoreBase
	evidence := false

	if st.brand != "" && strings.Contains(strings.ToLower(rec.Brand), strings.ToLower(st.brand)) {
		conf += scoreBrandMatch
		evidence = true
	}

	recCat := strings.ToLower(rec.Category)
	for _, sym := range st.symptoms {
		for _, c := range symptomProfiles[sym].Categories {
			if strings.Contains(recCat, strings.ToLower(c)) {
				conf += scoreCategoryMatch
				evidence = true
				break
			}
		}
	}

	title := strings.ToLower(rec.Title)
	desc := strings.ToLower(rec.Description)
	for _, w := range queryWords {
		switch {
		case strings.Contains(title, w):
			conf += scoreTitleKeyword
			evidence = true
		case strings.Contains(desc, w):
			conf += scoreDescKeyword
			evidence = true
		}
	}

	for _, sym := range st.symptoms {
		if symptomProfiles[sym].Severity == rec.Severity {
			conf += scoreSeverityMatch
			evidence = true
		}
	}

	return min(conf, scoreCap), evidence
}

func categoryMatches(category string, cats map[string]struct{}) bool {
	lc := strings.ToLower(category)
	for c := range cats {
		if strings.Contains(lc, c) || strings.Contains(c, lc) {
			return true
		}
	}
	return false
}

// queryKeywords splits the query into lowercase words longer than two
// characters.
func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if len(f) > 2 {
			words = append(words, f)
		}
	}
	return words
}

func toMatch(rec domain.FaultCodeRecord, confidence int, reason string) MatchedCode {
	solution := ""
	if len(rec.Solutions) > 0 {
		solution = rec.Solutions[0].Text
	}
	return MatchedCode{
		Code:        rec.Code,
		Brand:       rec.Brand,
		Title:       rec.Title,
		Category:    rec.Category,
		Severity:    string(rec.Severity),
		Confidence:  confidence,
		Description: rec.Description,
		Causes:      rec.Causes,
		Solution:    solution,
		MatchReason: reason,
	}
}

func matchReason(symptoms []string, rec domain.FaultCodeRecord) string {
	var parts []string
	if len(symptoms) > 0 {
		parts = append(parts, "Matches symptoms: "+strings.Join(symptoms, ", "))
	}
	if rec.Category != "" {
		parts = append(parts, "Category: "+rec.Category)
	}
	if len(parts) == 0 {
		return "General match"
	}
	return strings.Join(parts, " | ")
}
