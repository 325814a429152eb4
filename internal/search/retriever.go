package search

import (
	"sort"

	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/stringutil"
)

// DefaultLimit is the result cap used when the caller passes a
// non-positive limit.
const DefaultLimit = 3

// fallbackScore marks entries served from the FAQ fallback so callers can
// tell a real match from a "nothing matched, here is something useful"
// answer.
const fallbackScore = 0.1

// fallbackCount is how many common-question entries the fallback serves.
const fallbackCount = 2

// ScoredEntry is one retrieval result: the entry, its computed score and
// whether it came from the fallback path.
type ScoredEntry struct {
	Entry      *knowledge.Entry
	Score      float64
	IsFallback bool
}

// filterCategories maps the filter tokens produced by intent analysis to
// the knowledge categories each one allows. Tokens with no entry here
// (course-domain filters like enrollment or grades) match nothing; if a
// whole filter set resolves to zero categories the retriever searches
// everything rather than returning nothing.
var filterCategories = map[string][]knowledge.Category{
	"hospital": {knowledge.CategoryHospitals},
	"dept":     {knowledge.CategoryContacts},
	"type":     {knowledge.CategoryPolicy, knowledge.CategorySpecialCases},
	"time":     {knowledge.CategorySpecialCases},

	"procedure": {knowledge.CategoryProcedure},
	"materials": {knowledge.CategoryMaterials},
	"contacts":  {knowledge.CategoryContacts},

	"teachers":    {knowledge.CategoryContacts},
	"departments": {knowledge.CategoryContacts},
	"offices":     {knowledge.CategoryContacts},

	"policies":    {knowledge.CategoryPolicy},
	"regulations": {knowledge.CategoryPolicy},
	"standards":   {knowledge.CategoryPolicy},
}

// Retriever ranks knowledge entries against user queries. It reads one
// store snapshot per call, so results are internally consistent even while
// the knowledge base is being hot-swapped.
type Retriever struct {
	store *knowledge.Store
	log   *logger.Logger
}

// NewRetriever builds a retriever over the given store.
func NewRetriever(store *knowledge.Store, log *logger.Logger) *Retriever {
	return &Retriever{store: store, log: log}
}

// Retrieve returns up to limit entries ranked by descending score.
//
// The query is normalized, keywords are extracted and augmented with
// special-keyword detection, then every entry in the allowed categories is
// scored. Entries scoring zero are dropped. The sort is stable, so entries
// with equal scores keep knowledge-base order and repeated calls with the
// same query and snapshot return identical rankings.
//
// When nothing scores above zero, up to two common-question entries are
// returned with IsFallback set, so the caller always has something to say.
func (r *Retriever) Retrieve(query string, limit int, filters []string) []ScoredEntry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	normalized := stringutil.Normalize(query)
	if normalized == "" {
		return nil
	}

	keywords := ExtractKeywords(normalized)
	keywords = append(keywords, DetectSpecialKeywords(normalized)...)

	snap := r.store.Snapshot()
	allowed := resolveFilters(filters, snap.Categories())

	var results []ScoredEntry
	for _, cat := range allowed {
		entries := snap.ByCategory(cat)
		for i := range entries {
			entry := &entries[i]
			score := Score(entry, normalized, keywords)
			if score > 0 {
				results = append(results, ScoredEntry{Entry: entry, Score: score})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) == 0 {
		results = r.fallback(snap)
		if r.log != nil {
			r.log.WithField("query", normalized).
				Debugf("no scored results, served %d fallback entries", len(results))
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// resolveFilters turns filter tokens into the ordered category allow-list.
// The returned slice preserves the store's category order regardless of
// filter order, which keeps scoring iteration deterministic.
func resolveFilters(filters []string, all []knowledge.Category) []knowledge.Category {
	if len(filters) == 0 {
		return all
	}

	allowed := make(map[knowledge.Category]struct{})
	for _, f := range filters {
		for _, cat := range filterCategories[f] {
			allowed[cat] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return all
	}

	ordered := make([]knowledge.Category, 0, len(allowed))
	for _, cat := range all {
		if _, ok := allowed[cat]; ok {
			ordered = append(ordered, cat)
		}
	}
	return ordered
}

func (r *Retriever) fallback(snap *knowledge.Snapshot) []ScoredEntry {
	entries := snap.ByCategory(knowledge.CategoryCommonQuestions)
	n := len(entries)
	if n > fallbackCount {
		n = fallbackCount
	}

	results := make([]ScoredEntry, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, ScoredEntry{
			Entry:      &entries[i],
			Score:      fallbackScore,
			IsFallback: true,
		})
	}
	return results
}
