// internal/provider/provider.go
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/unclebandit/sem-planner-backend/internal/config"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
)

// KeywordIdeasProvider turns seed keywords into keyword ideas with metrics.
type KeywordIdeasProvider interface {
	KeywordIdeas(ctx context.Context, seeds []string) ([]model.KeywordRecord, error)
}

// New selects the provider named by cfg.KeywordProvider.
func New(cfg *config.Config, log logger.Logger) (KeywordIdeasProvider, error) {
	switch cfg.KeywordProvider {
	case config.ProviderMock, "":
		return NewMockProvider(log), nil
	case config.ProviderGoogleAds:
		return NewGoogleAdsProvider(cfg.GoogleAds, nil, log), nil
	default:
		return nil, fmt.Errorf("unknown keyword provider %q", cfg.KeywordProvider)
	}
}

// httpDoer is satisfied by *http.Client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
