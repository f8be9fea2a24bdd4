// internal/service/keyword_service.go
package service

import (
	"context"
	"strings"

	appErrors "github.com/unclebandit/sem-planner-backend/internal/errors"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
	"github.com/unclebandit/sem-planner-backend/internal/provider"
)

// MinSearchVolume is the lowest monthly volume a keyword needs to be kept.
const MinSearchVolume = 500

var (
	competitorTokens = []string{"vs", "versus", "compared", "alternative"}
	locationTokens   = []string{"near me", "local", "city", "area"}
)

// SeedExtractor is satisfied by *scraper.SeedExtractor.
type SeedExtractor interface {
	ExtractSeedKeywords(ctx context.Context, websiteURL string) []string
}

type KeywordService struct {
	Seeds    SeedExtractor
	Provider provider.KeywordIdeasProvider
	Logger   logger.Logger
}

// DiscoverKeywords scrapes seeds from the brand site (and competitor site, if
// any), fetches keyword ideas, filters them by volume and groups them.
// Provider failures come back as *appErrors.PipelineError.
func (s *KeywordService) DiscoverKeywords(ctx context.Context, brandWebsite, competitorWebsite string, locations []string) (*model.KeywordDiscovery, error) {
	seeds := s.Seeds.ExtractSeedKeywords(ctx, brandWebsite)
	if competitorWebsite != "" {
		seeds = append(seeds, s.Seeds.ExtractSeedKeywords(ctx, competitorWebsite)...)
	}
	if seeds == nil {
		seeds = []string{}
	}

	s.Logger.Info("discovering keywords", map[string]interface{}{
		"brand_website":      brandWebsite,
		"competitor_website": competitorWebsite,
		"locations":          locations,
		"seeds":              seeds,
	})

	ideas, err := s.Provider.KeywordIdeas(ctx, seeds)
	if err != nil {
		return nil, appErrors.NewPipelineError("keyword ideas", err)
	}

	filtered := FilterByVolume(ideas, MinSearchVolume)

	return &model.KeywordDiscovery{
		TotalKeywords:    len(filtered),
		Keywords:         filtered,
		AdGroups:         GroupKeywordsIntoAdGroups(filtered),
		SeedKeywordsUsed: seeds,
	}, nil
}

// FilterByVolume keeps keywords with SearchVolume >= min, preserving order.
func FilterByVolume(keywords []model.KeywordRecord, min int64) []model.KeywordRecord {
	out := []model.KeywordRecord{}
	for _, kw := range keywords {
		if kw.SearchVolume >= min {
			out = append(out, kw)
		}
	}
	return out
}

// AdGroupFor returns the ad group label for kw. Rules are checked in order
// and the first match wins.
func AdGroupFor(kw model.KeywordRecord) string {
	text := strings.ToLower(kw.Keyword)
	switch {
	case len(strings.Fields(text)) >= 3:
		return model.GroupLongTailTerms
	case containsAny(text, competitorTokens):
		return model.GroupCompetitorTerms
	case containsAny(text, locationTokens):
		return model.GroupLocationTerms
	case kw.Competition == model.CompetitionHigh:
		return model.GroupBrandTerms
	default:
		return model.GroupCategoryTerms
	}
}

func GroupKeywordsIntoAdGroups(keywords []model.KeywordRecord) model.AdGroups {
	groups := model.NewAdGroups()
	for _, kw := range keywords {
		groups.Add(AdGroupFor(kw), kw)
	}
	return groups
}

// containsAny does plain substring matching, so "devs" matches "vs".
func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
