// internal/provider/google_ads_provider.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/unclebandit/sem-planner-backend/internal/config"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
)

const (
	googleAdsBaseURL = "https://googleads.googleapis.com"
	adwordsScope     = "https://www.googleapis.com/auth/adwords"
	microsPerUnit    = 1_000_000
)

// GoogleAdsProvider calls the keyword planner's generateKeywordIdeas method
// over REST. It is only used when KEYWORD_PROVIDER=googleads.
type GoogleAdsProvider struct {
	cfg     config.GoogleAdsConfig
	client  httpDoer
	baseURL string
	logger  logger.Logger
}

// NewGoogleAdsProvider builds the provider. A nil client means an OAuth2
// client refreshing tokens from cfg.RefreshToken.
func NewGoogleAdsProvider(cfg config.GoogleAdsConfig, client httpDoer, log logger.Logger) *GoogleAdsProvider {
	if client == nil {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{adwordsScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{
			RefreshToken: cfg.RefreshToken,
			TokenType:    "Bearer",
		}
		client = oauth2.NewClient(context.Background(), oauthConfig.TokenSource(context.Background(), token))
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = config.DefaultGoogleAdsAPIVersion
	}
	return &GoogleAdsProvider{
		cfg:     cfg,
		client:  client,
		baseURL: googleAdsBaseURL,
		logger:  log,
	}
}

// WithBaseURL points the provider at another host, used by tests.
func (p *GoogleAdsProvider) WithBaseURL(u string) *GoogleAdsProvider {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

type generateKeywordIdeasRequest struct {
	KeywordSeed        keywordSeed `json:"keywordSeed"`
	KeywordPlanNetwork string      `json:"keywordPlanNetwork"`
}

type keywordSeed struct {
	Keywords []string `json:"keywords"`
}

type generateKeywordIdeasResponse struct {
	Results []keywordIdea `json:"results"`
}

type keywordIdea struct {
	Text    string              `json:"text"`
	Metrics *keywordIdeaMetrics `json:"keywordIdeaMetrics"`
}

// int64 fields arrive as JSON strings.
type keywordIdeaMetrics struct {
	AvgMonthlySearches     json.Number `json:"avgMonthlySearches"`
	Competition            string      `json:"competition"`
	LowTopOfPageBidMicros  json.Number `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros json.Number `json:"highTopOfPageBidMicros"`
}

func (p *GoogleAdsProvider) KeywordIdeas(ctx context.Context, seeds []string) ([]model.KeywordRecord, error) {
	body, err := json.Marshal(generateKeywordIdeasRequest{
		KeywordSeed:        keywordSeed{Keywords: seeds},
		KeywordPlanNetwork: "GOOGLE_SEARCH",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding keyword ideas request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/customers/%s:generateKeywordIdeas", p.baseURL, p.cfg.APIVersion, p.cfg.CustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building keyword ideas request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", p.cfg.DeveloperToken)

	p.logger.Info("requesting keyword ideas", map[string]interface{}{
		"customer_id": p.cfg.CustomerID,
		"seeds":       seeds,
	})

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google ads returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded generateKeywordIdeasResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding keyword ideas: %w", err)
	}

	keywords := make([]model.KeywordRecord, 0, len(decoded.Results))
	for _, idea := range decoded.Results {
		keywords = append(keywords, toKeywordRecord(idea))
	}

	p.logger.Info("received keyword ideas", map[string]interface{}{"count": len(keywords)})
	return keywords, nil
}

func toKeywordRecord(idea keywordIdea) model.KeywordRecord {
	kw := model.KeywordRecord{
		Keyword:     idea.Text,
		Competition: model.CompetitionUnknown,
	}
	if idea.Metrics == nil {
		return kw
	}
	if v, err := idea.Metrics.AvgMonthlySearches.Int64(); err == nil {
		kw.SearchVolume = v
	}
	if idea.Metrics.Competition != "" {
		kw.Competition = idea.Metrics.Competition
	}
	if v, err := idea.Metrics.LowTopOfPageBidMicros.Int64(); err == nil {
		kw.CpcLow = float64(v) / microsPerUnit
	}
	if v, err := idea.Metrics.HighTopOfPageBidMicros.Int64(); err == nil {
		kw.CpcHigh = float64(v) / microsPerUnit
	}
	return kw
}
