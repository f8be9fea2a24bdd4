// internal/model/campaign.go
package model

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// CampaignRequest is the body of POST /analyze-sem-campaign.
type CampaignRequest struct {
	BrandWebsite      string  `json:"brand_website"`
	CompetitorWebsite *string `json:"competitor_website,omitempty"`
	ServiceLocations  *string `json:"service_locations,omitempty"`
	ShoppingBudget    Budget  `json:"shopping_budget"`
	SearchBudget      Budget  `json:"search_budget"`
	PmaxBudget        Budget  `json:"pmax_budget"`
}

// ErrBudgetNotWhole is returned for budgets that are not whole numbers.
var ErrBudgetNotWhole = errors.New("must be a whole number")

// Budget is a whole amount. It decodes from a JSON integer, a float with no
// fractional part (1000.0) or a string of digits ("1000").
type Budget int

func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return ErrBudgetNotWhole
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return ErrBudgetNotWhole
		}
		*b = Budget(n)
		return nil
	}

	if n, err := strconv.Atoi(string(data)); err == nil {
		*b = Budget(n)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return ErrBudgetNotWhole
	}
	*b = Budget(f)
	return nil
}

// Locations splits ServiceLocations on commas, dropping blanks.
func (r CampaignRequest) Locations() []string {
	locations := []string{}
	if r.ServiceLocations == nil {
		return locations
	}
	for _, loc := range strings.Split(*r.ServiceLocations, ",") {
		if l := strings.TrimSpace(loc); l != "" {
			locations = append(locations, l)
		}
	}
	return locations
}

func (r CampaignRequest) Competitor() string {
	if r.CompetitorWebsite == nil {
		return ""
	}
	return strings.TrimSpace(*r.CompetitorWebsite)
}

func (r CampaignRequest) TotalBudget() int {
	return int(r.ShoppingBudget + r.SearchBudget + r.PmaxBudget)
}

type Theme struct {
	Theme          string `json:"theme"`
	Keywords       int    `json:"keywords"`
	EstimatedReach int64  `json:"estimated_reach"`
}

type PerformanceMaxThemes struct {
	ProductCategoryThemes []Theme `json:"product_category_themes"`
	UseCaseThemes         []Theme `json:"use_case_themes"`
	DemographicThemes     []Theme `json:"demographic_themes"`
	SeasonalThemes        []Theme `json:"seasonal_themes"`
}

type BudgetAllocation struct {
	ShoppingBudget int `json:"shopping_budget"`
	SearchBudget   int `json:"search_budget"`
	PmaxBudget     int `json:"pmax_budget"`
	TotalBudget    int `json:"total_budget"`
}

type CampaignSuggestions struct {
	PerformanceMaxThemes PerformanceMaxThemes `json:"performance_max_themes"`
	BudgetAllocation     BudgetAllocation     `json:"budget_allocation"`
}

const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
)

type CpcRecommendation struct {
	SuggestedCpc float64 `json:"suggested_cpc"`
	TargetCpa    float64 `json:"target_cpa"`
	Competition  string  `json:"competition"`
	Priority     string  `json:"priority"`
}

// AnalysisResponse is returned by POST /analyze-sem-campaign.
type AnalysisResponse struct {
	TotalKeywords       int                          `json:"total_keywords"`
	Keywords            []KeywordRecord              `json:"keywords"`
	AdGroups            AdGroups                     `json:"ad_groups"`
	CampaignSuggestions CampaignSuggestions          `json:"campaign_suggestions"`
	CpcRecommendations  map[string]CpcRecommendation `json:"cpc_recommendations"`
	SeedKeywordsUsed    []string                     `json:"seed_keywords_used"`
}

// AnalysisCompletedEvent is published after every successful analysis.
type AnalysisCompletedEvent struct {
	AnalysisID        string    `json:"analysis_id"`
	BrandWebsite      string    `json:"brand_website"`
	CompetitorWebsite string    `json:"competitor_website,omitempty"`
	ServiceLocations  []string  `json:"service_locations"`
	TotalKeywords     int       `json:"total_keywords"`
	SeedKeywordsUsed  []string  `json:"seed_keywords_used"`
	TotalBudget       int       `json:"total_budget"`
	CompletedAt       time.Time `json:"completed_at"`
}
