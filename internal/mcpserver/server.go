package mcpserver

import (
	"github.com/2beens/healthtrack/internal/health"
	"github.com/2beens/healthtrack/internal/hydration"
	"github.com/2beens/healthtrack/internal/steps"
	"github.com/2beens/healthtrack/internal/tips"
	"github.com/2beens/healthtrack/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with healthtrack tools: schema, water intake
// logging and pattern analysis, steps, health metrics, daily summary, tips.
// Used by the main backend when mounting MCP at /mcp (internal/server).
func NewServer(
	pool *pgxpool.Pool,
	users *user.Service,
	hydrationRepo *hydration.Repo,
	stepsRepo *steps.Repo,
	recordsRepo *health.Repo,
	summaries *health.SummaryService,
	tipsRepo *tips.Repo,
) *mcp.Server {
	analyzer := hydration.NewAnalyzer(hydrationRepo)
	svc := NewContextService(
		NewPoolSchemaRepo(pool),
		users,
		hydrationRepo,
		analyzer,
		stepsRepo,
		recordsRepo,
		summaries,
		tipsRepo,
	)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "healthtrack-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_healthtrack_schema",
		Description: "Returns the DB schema for healthtrack tables (app_user, water_log, step_log, health_record, health_tip): table names, columns, types, nullable, default. Use when developing the healthtrack app and you need the actual backend schema.",
	}, h.GetHealthtrackSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_water_intake",
		Description: "Logs a water intake amount (in ml) for a user identified by phone number. Optional: note. Returns the new daily total. Use when the user says they drank water.",
	}, h.LogWaterIntakeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_intake_pattern",
		Description: "Analyzes a user's water intake history: average daily amount, best hour of the day, consistency score (0-100) and recommendations. Optional: days (analyze only the last N days). Use when asked about drinking habits or hydration trends.",
	}, h.GetIntakePatternTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_steps",
		Description: "Logs a number of steps for a user identified by phone number. Returns the new daily total. Use when the user reports steps or a walk.",
	}, h.LogStepsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_health_metrics",
		Description: "Logs daily health metrics for a user identified by phone number: weight_kg, sleep_hours, mood_score (1-10), energy_level (1-10), notes. At least one metric is required. Use when the user reports how they feel or slept.",
	}, h.LogHealthMetricsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_health_summary",
		Description: "Returns the combined daily summary for a user identified by phone number: water total and goal progress, steps total and goal progress, latest health record. Use for a quick overview of the user's day.",
	}, h.GetHealthSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_health_tip",
		Description: "Returns a random health tip. Optional: category (hydration, activity, sleep, general). Use when the user asks for advice or a tip.",
	}, h.GetHealthTipTool())

	return s
}
