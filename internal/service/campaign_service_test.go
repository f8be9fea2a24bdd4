package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/logger/loggertest"
	"github.com/unclebandit/sem-planner-backend/internal/model"
	"github.com/unclebandit/sem-planner-backend/internal/provider"
	"github.com/unclebandit/sem-planner-backend/internal/queue"
	"github.com/unclebandit/sem-planner-backend/internal/service"
)

// MockQueue records published payloads synchronously.
type MockQueue struct {
	mu        sync.Mutex
	published map[string][]any
	err       error
}

func (q *MockQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	if q.published == nil {
		q.published = map[string][]any{}
	}
	q.published[topic] = append(q.published[topic], payload)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func strPtr(s string) *string { return &s }

func newCampaignService(t *testing.T, seeds map[string][]string, q queue.Queue) *service.CampaignService {
	return &service.CampaignService{
		Keywords: &service.KeywordService{
			Seeds:    &MockSeedExtractor{seeds: seeds},
			Provider: provider.NewMockProvider(logger.NewNoOpLogger()),
			Logger:   logger.NewNoOpLogger(),
		},
		Queue:  q,
		Logger: loggertest.New(t),
	}
}

func TestAnalyzeCampaign(t *testing.T) {
	q := &MockQueue{}
	svc := newCampaignService(t, map[string][]string{
		"https://brand.test": {"shoes"},
		"https://rival.test": {"boots"},
	}, q)

	resp, err := svc.AnalyzeCampaign(context.Background(), model.CampaignRequest{
		BrandWebsite:      "https://brand.test",
		CompetitorWebsite: strPtr("https://rival.test"),
		ServiceLocations:  strPtr("Nairobi, Mombasa ,"),
		ShoppingBudget:    100,
		SearchBudget:      200,
		PmaxBudget:        300,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"shoes", "boots"}, resp.SeedKeywordsUsed)
	assert.Equal(t, 12, resp.TotalKeywords)
	assert.Equal(t, len(resp.Keywords), resp.TotalKeywords)
	assert.Equal(t, resp.TotalKeywords, resp.AdGroups.Total())
	assert.Len(t, resp.CpcRecommendations, 12)
	assert.InDelta(t, 0.85, resp.CpcRecommendations["shoes"].SuggestedCpc, 1e-9)
	assert.InDelta(t, 42.5, resp.CpcRecommendations["shoes"].TargetCpa, 1e-9)
	assert.Equal(t, 600, resp.CampaignSuggestions.BudgetAllocation.TotalBudget)

	events := q.published[queue.TopicAnalysisCompleted]
	require.Len(t, events, 1)
	event := events[0].(model.AnalysisCompletedEvent)
	assert.NotEmpty(t, event.AnalysisID)
	assert.Equal(t, "https://brand.test", event.BrandWebsite)
	assert.Equal(t, "https://rival.test", event.CompetitorWebsite)
	assert.Equal(t, []string{"Nairobi", "Mombasa"}, event.ServiceLocations)
	assert.Equal(t, 12, event.TotalKeywords)
	assert.Equal(t, 600, event.TotalBudget)
}

func TestAnalyzeCampaignIgnoresPublishFailure(t *testing.T) {
	q := &MockQueue{err: errors.New("broker down")}
	svc := newCampaignService(t, map[string][]string{"https://brand.test": {"shoes"}}, q)

	resp, err := svc.AnalyzeCampaign(context.Background(), model.CampaignRequest{BrandWebsite: "https://brand.test"})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.TotalKeywords)
}

func TestAnalyzeCampaignWithoutQueue(t *testing.T) {
	svc := newCampaignService(t, nil, nil)

	resp, err := svc.AnalyzeCampaign(context.Background(), model.CampaignRequest{BrandWebsite: "https://unknown.test"})
	require.NoError(t, err)
	assert.Equal(t, []string{"digital marketing", "online services", "web solutions", "business consulting"}, resp.SeedKeywordsUsed)
	assert.Equal(t, resp.TotalKeywords, len(resp.Keywords))
}

func TestAnalyzeCampaignPropagatesPipelineError(t *testing.T) {
	svc := &service.CampaignService{
		Keywords: &service.KeywordService{
			Seeds:    &MockSeedExtractor{},
			Provider: &MockProvider{err: errors.New("api disabled")},
			Logger:   logger.NewNoOpLogger(),
		},
		Logger: logger.NewNoOpLogger(),
	}

	_, err := svc.AnalyzeCampaign(context.Background(), model.CampaignRequest{BrandWebsite: "https://brand.test"})
	assert.ErrorContains(t, err, "api disabled")
}
