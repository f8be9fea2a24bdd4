package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/unclebandit/sem-planner-backend/internal/errors"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/model"
	"github.com/unclebandit/sem-planner-backend/internal/queue"
)

const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	defaultJobTimeout = 60 * time.Second
)

// AnalysisJob is a queued campaign request.
type AnalysisJob struct {
	JobID string `json:"job_id"`
	model.CampaignRequest
}

// AnalysisJobResult is published to the result topic for every processed job.
type AnalysisJobResult struct {
	JobID  string                  `json:"job_id"`
	Status string                  `json:"status"`
	Error  string                  `json:"error,omitempty"`
	Result *model.AnalysisResponse `json:"result,omitempty"`
}

// CampaignAnalyzer is satisfied by *CampaignService.
type CampaignAnalyzer interface {
	AnalyzeCampaign(ctx context.Context, req model.CampaignRequest) (*model.AnalysisResponse, error)
}

// Worker runs queued analyses and publishes their results.
type Worker struct {
	Analyzer    CampaignAnalyzer
	Results     queue.Queue
	ResultTopic string
	Timeout     time.Duration
	Logger      logger.Logger
}

func NewWorker(analyzer CampaignAnalyzer, results queue.Queue, resultTopic string, log logger.Logger) *Worker {
	return &Worker{
		Analyzer:    analyzer,
		Results:     results,
		ResultTopic: resultTopic,
		Timeout:     defaultJobTimeout,
		Logger:      log,
	}
}

// Handle processes one job payload. Malformed jobs are dropped, pipeline
// errors produce a failed result, and anything else is returned so the queue
// retries the job.
func (w *Worker) Handle(payload any) error {
	job, err := decodeJob(payload)
	if err != nil {
		w.Logger.Warn("invalid job, dropping", map[string]interface{}{"error": err.Error()})
		return nil
	}

	log := w.Logger.WithFields(map[string]interface{}{"job_id": job.JobID})

	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	resp, err := w.Analyzer.AnalyzeCampaign(ctx, job.CampaignRequest)
	if err != nil {
		var pipelineErr *appErrors.PipelineError
		if !errors.As(err, &pipelineErr) {
			log.Error("analysis failed", map[string]interface{}{"error": err.Error()})
			return err
		}
		log.Warn("analysis rejected by pipeline", map[string]interface{}{"error": err.Error()})
		return w.Results.Publish(w.ResultTopic, AnalysisJobResult{
			JobID:  job.JobID,
			Status: JobStatusFailed,
			Error:  err.Error(),
		})
	}

	log.Info("analysis job completed", map[string]interface{}{"total_keywords": resp.TotalKeywords})
	return w.Results.Publish(w.ResultTopic, AnalysisJobResult{
		JobID:  job.JobID,
		Status: JobStatusCompleted,
		Result: resp,
	})
}

func decodeJob(payload any) (AnalysisJob, error) {
	var job AnalysisJob
	switch p := payload.(type) {
	case []byte:
		if err := json.Unmarshal(p, &job); err != nil {
			return job, fmt.Errorf("decoding job: %w", err)
		}
	case AnalysisJob:
		job = p
	default:
		return job, fmt.Errorf("unexpected payload type %T", payload)
	}

	if strings.TrimSpace(job.BrandWebsite) == "" {
		return job, fmt.Errorf("job %q has no brand_website", job.JobID)
	}
	return job, nil
}
