// internal/provider/mock_provider.go
package provider

import (
	"context"
	"math"
	"strings"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
)

const maxMockSeeds = 10

var (
	mockBaseVolumes  = []int64{1000, 2500, 5000, 1200, 800, 3200, 4500, 600, 1800, 2200}
	mockCompetitions = []string{model.CompetitionLow, model.CompetitionMedium, model.CompetitionHigh}
	mockSuffixes     = []string{"", " online", " shop", " buy", " best", " reviews"}
)

// MockProvider generates deterministic keyword ideas without calling any API.
// Every variant of a seed shares the metrics derived from the seed's index.
type MockProvider struct {
	Logger logger.Logger
}

func NewMockProvider(log logger.Logger) *MockProvider {
	return &MockProvider{Logger: log}
}

func (p *MockProvider) KeywordIdeas(ctx context.Context, seeds []string) ([]model.KeywordRecord, error) {
	if len(seeds) > maxMockSeeds {
		seeds = seeds[:maxMockSeeds]
	}

	keywords := make([]model.KeywordRecord, 0, len(seeds)*len(mockSuffixes))
	for i, seed := range seeds {
		for _, suffix := range mockSuffixes {
			keywords = append(keywords, model.KeywordRecord{
				Keyword:      strings.TrimSpace(seed + suffix),
				SearchVolume: mockBaseVolumes[i%len(mockBaseVolumes)] + int64(i)*100,
				Competition:  mockCompetitions[i%len(mockCompetitions)],
				CpcLow:       round2(0.5 + float64(i)*0.3),
				CpcHigh:      round2(1.2 + float64(i)*0.4),
			})
		}
	}

	p.Logger.Debug("generated mock keyword ideas", map[string]interface{}{
		"seeds":    len(seeds),
		"keywords": len(keywords),
	})
	return keywords, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
