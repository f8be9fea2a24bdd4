// internal/model/keyword.go
package model

const (
	CompetitionLow     = "LOW"
	CompetitionMedium  = "MEDIUM"
	CompetitionHigh    = "HIGH"
	CompetitionUnknown = "UNKNOWN"
)

// KeywordRecord is one keyword idea with its estimated metrics.
type KeywordRecord struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int64   `json:"search_volume"`
	Competition  string  `json:"competition"`
	CpcLow       float64 `json:"cpc_low"`
	CpcHigh      float64 `json:"cpc_high"`
}

// Ad group labels, in JSON field order.
const (
	GroupBrandTerms      = "brand_terms"
	GroupCategoryTerms   = "category_terms"
	GroupCompetitorTerms = "competitor_terms"
	GroupLocationTerms   = "location_terms"
	GroupLongTailTerms   = "long_tail_terms"
)

type AdGroups struct {
	BrandTerms      []KeywordRecord `json:"brand_terms"`
	CategoryTerms   []KeywordRecord `json:"category_terms"`
	CompetitorTerms []KeywordRecord `json:"competitor_terms"`
	LocationTerms   []KeywordRecord `json:"location_terms"`
	LongTailTerms   []KeywordRecord `json:"long_tail_terms"`
}

// NewAdGroups returns groups with every bucket initialised so they encode as [].
func NewAdGroups() AdGroups {
	return AdGroups{
		BrandTerms:      []KeywordRecord{},
		CategoryTerms:   []KeywordRecord{},
		CompetitorTerms: []KeywordRecord{},
		LocationTerms:   []KeywordRecord{},
		LongTailTerms:   []KeywordRecord{},
	}
}

// Add appends kw to the named bucket. Unknown labels are ignored.
func (g *AdGroups) Add(label string, kw KeywordRecord) {
	switch label {
	case GroupBrandTerms:
		g.BrandTerms = append(g.BrandTerms, kw)
	case GroupCategoryTerms:
		g.CategoryTerms = append(g.CategoryTerms, kw)
	case GroupCompetitorTerms:
		g.CompetitorTerms = append(g.CompetitorTerms, kw)
	case GroupLocationTerms:
		g.LocationTerms = append(g.LocationTerms, kw)
	case GroupLongTailTerms:
		g.LongTailTerms = append(g.LongTailTerms, kw)
	}
}

// ByLabel maps each label to its bucket.
func (g AdGroups) ByLabel() map[string][]KeywordRecord {
	return map[string][]KeywordRecord{
		GroupBrandTerms:      g.BrandTerms,
		GroupCategoryTerms:   g.CategoryTerms,
		GroupCompetitorTerms: g.CompetitorTerms,
		GroupLocationTerms:   g.LocationTerms,
		GroupLongTailTerms:   g.LongTailTerms,
	}
}

func (g AdGroups) Total() int {
	return len(g.BrandTerms) + len(g.CategoryTerms) + len(g.CompetitorTerms) +
		len(g.LocationTerms) + len(g.LongTailTerms)
}

// KeywordDiscovery is the output of the keyword pipeline.
type KeywordDiscovery struct {
	TotalKeywords    int             `json:"total_keywords"`
	Keywords         []KeywordRecord `json:"keywords"`
	AdGroups         AdGroups        `json:"ad_groups"`
	SeedKeywordsUsed []string        `json:"seed_keywords_used"`
}
