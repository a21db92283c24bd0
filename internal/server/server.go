// Package server implements the MCP (Model Context Protocol) server for the
// geometry proof grading engine.
//
// This package exposes a single tool, grade-geometry-solution, that accepts
// a formalized problem specification and an ordered list of student steps
// and returns the structured GradingReport. Responses are JSON formatted for
// consumption via stdio transport.
package server

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"geoproof/internal/cdl"
	"geoproof/internal/config"
	"geoproof/internal/grader"
	"geoproof/internal/gradertypes"
)

// GradingServer wraps the grading engine with its configuration and exposes
// it as an MCP tool.
type GradingServer struct {
	cfg *config.Config
}

// NewGradingServer builds a GradingServer bound to cfg. Every
// grade-geometry-solution call constructs fresh KB/adapter state internally
// (internal/grader.GradeWithConfig) — the server itself holds no
// per-request mutable state.
func NewGradingServer(cfg *config.Config) *GradingServer {
	return &GradingServer{cfg: cfg}
}

// RegisterTools registers the grading tool on mcpServer.
func (s *GradingServer) RegisterTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "grade-geometry-solution",
		Description: "Grade a formalized geometry proof solution against its problem specification",
	}, s.handleGradeSolution)
}

// StepInput is the wire shape of one student step. raw_text/normalized_text
// are accepted but not required — only claim_cdl, theorem_name, and
// depends_on drive grading.
type StepInput struct {
	StepID         int    `json:"step_id"`
	ClaimCDL       string `json:"claim_cdl"`
	TheoremName    string `json:"theorem_name,omitempty"`
	DependsOn      []int  `json:"depends_on,omitempty"`
	RawText        string `json:"raw_text,omitempty"`
	NormalizedText string `json:"normalized_text,omitempty"`
}

// GradeSolutionRequest is the wire shape of a ProblemSpec plus the ordered
// student steps, as a flat request struct.
type GradeSolutionRequest struct {
	ConstructionCDL []string    `json:"construction_cdl"`
	TextCDL         []string    `json:"text_cdl"`
	GoalCDL         string      `json:"goal_cdl"`
	ProblemAnswer   string      `json:"problem_answer,omitempty"`
	Steps           []StepInput `json:"steps"`
}

// GradeSolutionResponse wraps the GradingReport plus a correlation id for
// log correlation across a single grading request.
type GradeSolutionResponse struct {
	RequestID string                     `json:"request_id"`
	Report    *gradertypes.GradingReport `json:"report"`
}

func (s *GradingServer) handleGradeSolution(ctx context.Context, req *mcp.CallToolRequest, input GradeSolutionRequest) (*mcp.CallToolResult, *GradeSolutionResponse, error) {
	requestID := uuid.NewString()
	log.Printf("[%s] grading solution: %d steps", requestID, len(input.Steps))

	spec, err := cdl.LoadProblemSpec(input.ConstructionCDL, input.TextCDL, input.GoalCDL, input.ProblemAnswer)
	if err != nil {
		log.Printf("[%s] problem spec failed to load: %v", requestID, err)
		return nil, nil, err
	}

	steps := make([]gradertypes.Step, len(input.Steps))
	for i, st := range input.Steps {
		steps[i] = gradertypes.Step{
			StepID:         st.StepID,
			RawText:        st.RawText,
			NormalizedText: st.NormalizedText,
			ClaimCDL:       st.ClaimCDL,
			TheoremName:    st.TheoremName,
			DependsOn:      st.DependsOn,
		}
	}

	report := grader.GradeWithConfig(s.cfg, spec, steps)
	log.Printf("[%s] graded: total_points=%d goal_reached=%v", requestID, report.TotalPoints, report.GoalReached)

	response := &GradeSolutionResponse{RequestID: requestID, Report: report}
	return &mcp.CallToolResult{
		Content: toJSONContent(response),
	}, response, nil
}

// toJSONContent marshals data as a single text content block, matching the
// teacher's internal/server/formatters.go toJSONContent.
func toJSONContent(data interface{}) []mcp.Content {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errData := map[string]string{"error": err.Error()}
		jsonData, _ = json.Marshal(errData)
	}

	return []mcp.Content{
		&mcp.TextContent{Text: string(jsonData)},
	}
}
