// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/metrics"
	"github.com/unclebandit/sem-planner-backend/internal/model"
	"github.com/unclebandit/sem-planner-backend/internal/queue"
)

// KeywordDiscoverer is satisfied by *KeywordService.
type KeywordDiscoverer interface {
	DiscoverKeywords(ctx context.Context, brandWebsite, competitorWebsite string, locations []string) (*model.KeywordDiscovery, error)
}

type CampaignService struct {
	Keywords KeywordDiscoverer
	Queue    queue.Queue // optional
	Logger   logger.Logger
}

// AnalyzeCampaign runs keyword discovery for req and turns the result into
// budget and CPC suggestions. Errors from discovery are returned unchanged.
func (s *CampaignService) AnalyzeCampaign(ctx context.Context, req model.CampaignRequest) (*model.AnalysisResponse, error) {
	start := time.Now()
	locations := req.Locations()

	s.Logger.Info("analyzing campaign", map[string]interface{}{
		"brand_website":   req.BrandWebsite,
		"shopping_budget": req.ShoppingBudget,
		"search_budget":   req.SearchBudget,
		"pmax_budget":     req.PmaxBudget,
		"locations":       locations,
	})

	discovery, err := s.Keywords.DiscoverKeywords(ctx, strings.TrimSpace(req.BrandWebsite), req.Competitor(), locations)
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues("error").Inc()
		metrics.AnalysisDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	resp := &model.AnalysisResponse{
		TotalKeywords:       discovery.TotalKeywords,
		Keywords:            discovery.Keywords,
		AdGroups:            discovery.AdGroups,
		CampaignSuggestions: CalculateCampaignSuggestions(discovery, int(req.ShoppingBudget), int(req.SearchBudget), int(req.PmaxBudget)),
		CpcRecommendations:  CalculateCpcRecommendations(discovery.Keywords),
		SeedKeywordsUsed:    discovery.SeedKeywordsUsed,
	}

	metrics.AnalysisRequests.WithLabelValues("ok").Inc()
	metrics.AnalysisDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	metrics.KeywordsReturned.Observe(float64(resp.TotalKeywords))

	s.publishCompleted(req, locations, resp)
	return resp, nil
}

// publishCompleted never fails the analysis; errors are only logged.
func (s *CampaignService) publishCompleted(req model.CampaignRequest, locations []string, resp *model.AnalysisResponse) {
	if s.Queue == nil {
		return
	}

	event := model.AnalysisCompletedEvent{
		AnalysisID:        uuid.NewString(),
		BrandWebsite:      req.BrandWebsite,
		CompetitorWebsite: req.Competitor(),
		ServiceLocations:  locations,
		TotalKeywords:     resp.TotalKeywords,
		SeedKeywordsUsed:  resp.SeedKeywordsUsed,
		TotalBudget:       req.TotalBudget(),
		CompletedAt:       time.Now().UTC(),
	}
	if err := s.Queue.Publish(queue.TopicAnalysisCompleted, event); err != nil {
		metrics.EventsPublishFailed.WithLabelValues(queue.TopicAnalysisCompleted).Inc()
		s.Logger.Warn("failed to publish analysis event", map[string]interface{}{
			"analysis_id": event.AnalysisID,
			"error":       err.Error(),
		})
	}
}
