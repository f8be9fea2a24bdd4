// internal/controller/campaign_controller.go
package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	appErrors "github.com/unclebandit/sem-planner-backend/internal/errors"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/middleware"
	"github.com/unclebandit/sem-planner-backend/internal/model"
	"github.com/unclebandit/sem-planner-backend/internal/service"
)

const maxBodyBytes = 1 << 20

var campaignRequestSchema = mustSchema(`{
	"type": "object",
	"required": ["brand_website", "shopping_budget", "search_budget", "pmax_budget"],
	"properties": {
		"brand_website":      {"type": "string"},
		"competitor_website": {"type": ["string", "null"]},
		"service_locations":  {"type": ["string", "null"]},
		"shopping_budget":    {"$ref": "#/definitions/budget"},
		"search_budget":      {"$ref": "#/definitions/budget"},
		"pmax_budget":        {"$ref": "#/definitions/budget"}
	},
	"definitions": {
		"budget": {
			"anyOf": [
				{"type": "integer"},
				{"type": "string", "pattern": "^\\s*-?\\d+\\s*$"}
			]
		}
	}
}`)

var budgetFields = []string{"shopping_budget", "search_budget", "pmax_budget"}

type CampaignController struct {
	CampaignService service.CampaignAnalyzer
	Logger          logger.Logger
}

// AnalyzeSEMCampaign handles POST /analyze-sem-campaign.
func (c *CampaignController) AnalyzeSEMCampaign(w http.ResponseWriter, r *http.Request) {
	log := c.Logger.WithFields(map[string]interface{}{"request_id": middleware.RequestIDFrom(r.Context())})

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic during analysis", map[string]interface{}{"panic": fmt.Sprint(rec)})
			writeDetail(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}
	}()

	req, err := decodeCampaignRequest(r.Body)
	if err != nil {
		var validationErr *appErrors.ValidationError
		if errors.As(err, &validationErr) {
			log.Info("rejected request body", map[string]interface{}{"problems": validationErr.Problems})
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": validationErr.Problems})
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := c.CampaignService.AnalyzeCampaign(r.Context(), req)
	if err != nil {
		var pipelineErr *appErrors.PipelineError
		if errors.As(err, &pipelineErr) {
			log.Warn("keyword pipeline error", map[string]interface{}{"error": err.Error()})
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("analysis failed", map[string]interface{}{"error": err.Error()})
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func decodeCampaignRequest(body io.Reader) (model.CampaignRequest, error) {
	var req model.CampaignRequest

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("reading body: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return req, appErrors.NewValidationError("body is not valid JSON: " + err.Error())
	}

	result, err := campaignRequestSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return req, fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return req, appErrors.NewValidationError(problems...)
	}

	if problems := budgetProblems(doc.(map[string]interface{})); len(problems) > 0 {
		return req, appErrors.NewValidationError(problems...)
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, appErrors.NewValidationError("request body does not match the campaign request fields")
	}
	return req, nil
}

// budgetProblems reports budgets the schema lets through but that do not fit
// a whole amount, such as integers beyond the int range.
func budgetProblems(doc map[string]interface{}) []string {
	var problems []string
	for _, field := range budgetFields {
		raw, err := json.Marshal(doc[field])
		if err != nil {
			problems = append(problems, field+": "+model.ErrBudgetNotWhole.Error())
			continue
		}
		var b model.Budget
		if err := b.UnmarshalJSON(raw); err != nil {
			problems = append(problems, field+": "+err.Error())
		}
	}
	return problems
}

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return schema
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
