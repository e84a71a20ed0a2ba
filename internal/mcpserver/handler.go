package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/healthtrack/internal/health"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil, nil
	}
	return textResult(string(raw)), nil, nil
}

// GetHealthtrackSchemaTool returns the MCP tool handler for get_healthtrack_schema.
func (h *Handler) GetHealthtrackSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// LogWaterIntakeInput is the input for log_water_intake.
type LogWaterIntakeInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"User phone number (e.g. +4915112345678)"`
	Amount      int    `json:"amount" jsonschema:"Amount of water in milliliters"`
	Note        string `json:"note,omitempty" jsonschema:"Optional note (e.g. after workout)"`
}

// LogWaterIntakeTool returns the MCP tool handler for log_water_intake.
func (h *Handler) LogWaterIntakeTool() func(context.Context, *mcp.CallToolRequest, LogWaterIntakeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogWaterIntakeInput) (*mcp.CallToolResult, any, error) {
		if in.PhoneNumber == "" {
			return errorResult("phone_number is required"), nil, nil
		}
		if in.Amount <= 0 {
			return errorResult("amount must be a positive number of milliliters"), nil, nil
		}

		event, dailyTotal, err := h.service.LogWaterIntake(ctx, in.PhoneNumber, in.Amount, in.Note)
		if err != nil {
			return errorResult("Error logging water intake: " + err.Error()), nil, nil
		}

		return textResult(fmt.Sprintf(
			"Logged %dml of water (intake id %d). Total today: %dml.",
			event.Amount, event.ID, dailyTotal,
		)), nil, nil
	}
}

// IntakePatternInput is the input for get_intake_pattern.
type IntakePatternInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"User phone number (e.g. +4915112345678)"`
	Days        int    `json:"days,omitempty" jsonschema:"Analyze only the last N days (0 or omitted: full history)"`
}

// GetIntakePatternTool returns the MCP tool handler for get_intake_pattern.
func (h *Handler) GetIntakePatternTool() func(context.Context, *mcp.CallToolRequest, IntakePatternInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in IntakePatternInput) (*mcp.CallToolResult, any, error) {
		if in.PhoneNumber == "" {
			return errorResult("phone_number is required"), nil, nil
		}
		if in.Days < 0 {
			return errorResult("days must not be negative"), nil, nil
		}

		report, err := h.service.GetIntakePattern(ctx, in.PhoneNumber, in.Days)
		if err != nil {
			return errorResult("Error analyzing intake pattern: " + err.Error()), nil, nil
		}

		return jsonResult(report)
	}
}

// LogStepsInput is the input for log_steps.
type LogStepsInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"User phone number (e.g. +4915112345678)"`
	Steps       int    `json:"steps" jsonschema:"Number of steps to log"`
}

// LogStepsTool returns the MCP tool handler for log_steps.
func (h *Handler) LogStepsTool() func(context.Context, *mcp.CallToolRequest, LogStepsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogStepsInput) (*mcp.CallToolResult, any, error) {
		if in.PhoneNumber == "" {
			return errorResult("phone_number is required"), nil, nil
		}
		if in.Steps <= 0 {
			return errorResult("steps must be a positive number"), nil, nil
		}

		entry, dailyTotal, err := h.service.LogSteps(ctx, in.PhoneNumber, in.Steps)
		if err != nil {
			return errorResult("Error logging steps: " + err.Error()), nil, nil
		}

		return textResult(fmt.Sprintf(
			"Logged %d steps (entry id %d). Total today: %d steps.",
			entry.Steps, entry.ID, dailyTotal,
		)), nil, nil
	}
}

// LogHealthMetricsInput is the input for log_health_metrics.
type LogHealthMetricsInput struct {
	PhoneNumber string   `json:"phone_number" jsonschema:"User phone number (e.g. +4915112345678)"`
	WeightKg    *float64 `json:"weight_kg,omitempty" jsonschema:"Body weight in kilograms"`
	SleepHours  *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept last night (0-24)"`
	MoodScore   *int     `json:"mood_score,omitempty" jsonschema:"Mood score from 1 to 10"`
	EnergyLevel *int     `json:"energy_level,omitempty" jsonschema:"Energy level from 1 to 10"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Optional free-form notes"`
}

// LogHealthMetricsTool returns the MCP tool handler for log_health_metrics.
func (h *Handler) LogHealthMetricsTool() func(context.Context, *mcp.CallToolRequest, LogHealthMetricsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogHealthMetricsInput) (*mcp.CallToolResult, any, error) {
		if in.PhoneNumber == "" {
			return errorResult("phone_number is required"), nil, nil
		}

		rec, err := h.service.LogHealthMetrics(ctx, in.PhoneNumber, health.Record{
			WeightKg:    in.WeightKg,
			SleepHours:  in.SleepHours,
			MoodScore:   in.MoodScore,
			EnergyLevel: in.EnergyLevel,
			Notes:       in.Notes,
		})
		if err != nil {
			return errorResult("Error logging health metrics: " + err.Error()), nil, nil
		}

		return jsonResult(rec)
	}
}

// HealthSummaryInput is the input for get_health_summary.
type HealthSummaryInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"User phone number (e.g. +4915112345678)"`
}

// GetHealthSummaryTool returns the MCP tool handler for get_health_summary.
func (h *Handler) GetHealthSummaryTool() func(context.Context, *mcp.CallToolRequest, HealthSummaryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HealthSummaryInput) (*mcp.CallToolResult, any, error) {
		if in.PhoneNumber == "" {
			return errorResult("phone_number is required"), nil, nil
		}

		summary, err := h.service.GetHealthSummary(ctx, in.PhoneNumber)
		if err != nil {
			return errorResult("Error fetching health summary: " + err.Error()), nil, nil
		}

		return jsonResult(summary)
	}
}

// HealthTipInput is the input for get_health_tip.
type HealthTipInput struct {
	Category string `json:"category,omitempty" jsonschema:"Tip category (hydration, activity, sleep, general), omit for any"`
}

// GetHealthTipTool returns the MCP tool handler for get_health_tip.
func (h *Handler) GetHealthTipTool() func(context.Context, *mcp.CallToolRequest, HealthTipInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HealthTipInput) (*mcp.CallToolResult, any, error) {
		tip, err := h.service.GetHealthTip(ctx, in.Category)
		if err != nil {
			return errorResult("Error fetching health tip: " + err.Error()), nil, nil
		}

		return textResult(tip.Content), nil, nil
	}
}
