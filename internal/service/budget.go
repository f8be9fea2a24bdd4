// internal/service/budget.go
package service

import (
	"math"

	"github.com/unclebandit/sem-planner-backend/internal/model"
)

const (
	// assumed share of clicks that convert
	ConversionRate = 0.02

	HighVolumeThreshold   = 5000
	HighPriorityThreshold = 10000
)

// CalculateCampaignSuggestions derives Performance Max themes from the
// discovered keywords and echoes the budget split.
func CalculateCampaignSuggestions(discovery *model.KeywordDiscovery, shoppingBudget, searchBudget, pmaxBudget int) model.CampaignSuggestions {
	highVolume := []model.KeywordRecord{}
	for _, kw := range discovery.Keywords {
		if kw.SearchVolume > HighVolumeThreshold {
			highVolume = append(highVolume, kw)
		}
	}

	return model.CampaignSuggestions{
		PerformanceMaxThemes: model.PerformanceMaxThemes{
			ProductCategoryThemes: []model.Theme{summarizeTheme("High Volume Products", highVolume)},
			UseCaseThemes:         []model.Theme{summarizeTheme("Detailed Solutions", discovery.AdGroups.LongTailTerms)},
			DemographicThemes:     []model.Theme{summarizeTheme("Location-Based Services", discovery.AdGroups.LocationTerms)},
			SeasonalThemes:        []model.Theme{},
		},
		BudgetAllocation: model.BudgetAllocation{
			ShoppingBudget: shoppingBudget,
			SearchBudget:   searchBudget,
			PmaxBudget:     pmaxBudget,
			TotalBudget:    shoppingBudget + searchBudget + pmaxBudget,
		},
	}
}

func summarizeTheme(name string, keywords []model.KeywordRecord) model.Theme {
	var reach int64
	for _, kw := range keywords {
		reach += kw.SearchVolume
	}
	return model.Theme{
		Theme:          name,
		Keywords:       len(keywords),
		EstimatedReach: reach,
	}
}

// CalculateCpcRecommendations keys recommendations by keyword text; a later
// duplicate replaces an earlier one.
func CalculateCpcRecommendations(keywords []model.KeywordRecord) map[string]model.CpcRecommendation {
	recommendations := make(map[string]model.CpcRecommendation, len(keywords))
	for _, kw := range keywords {
		recommendations[kw.Keyword] = CpcRecommendationFor(kw)
	}
	return recommendations
}

func CpcRecommendationFor(kw model.KeywordRecord) model.CpcRecommendation {
	avgCpc := (kw.CpcLow + kw.CpcHigh) / 2
	targetCpa := avgCpc / ConversionRate

	priority := model.PriorityMedium
	if kw.SearchVolume > HighPriorityThreshold && kw.Competition == model.CompetitionMedium {
		priority = model.PriorityHigh
	}

	return model.CpcRecommendation{
		SuggestedCpc: roundTo2(avgCpc),
		TargetCpa:    roundTo2(targetCpa),
		Competition:  kw.Competition,
		Priority:     priority,
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
