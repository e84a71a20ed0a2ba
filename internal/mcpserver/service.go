package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/healthtrack/internal/health"
	"github.com/2beens/healthtrack/internal/hydration"
	"github.com/2beens/healthtrack/internal/steps"
	"github.com/2beens/healthtrack/internal/tips"
)

type userResolver interface {
	ResolveID(ctx context.Context, phoneNumber string) (int, error)
}

type hydrationRepo interface {
	Add(ctx context.Context, event hydration.IntakeEvent) (*hydration.IntakeEvent, error)
	DailyTotal(ctx context.Context, userID int, day time.Time) (int, error)
}

type intakeAnalyzer interface {
	IntakePattern(ctx context.Context, params hydration.IntakeParams) (*hydration.PatternReport, error)
}

type stepsRepo interface {
	Add(ctx context.Context, entry steps.Entry) (*steps.Entry, error)
	DailyTotal(ctx context.Context, userID int, day time.Time) (int, error)
}

type recordsRepo interface {
	Add(ctx context.Context, rec health.Record) (*health.Record, error)
}

type summaryProvider interface {
	Summary(ctx context.Context, userID int) (*health.Summary, error)
}

type tipsRepo interface {
	Random(ctx context.Context, category string) (*tips.Tip, error)
}

// contextService provides healthtrack context data (schema, logging, pattern, summary, tips).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	LogWaterIntake(ctx context.Context, phoneNumber string, amount int, note string) (event *hydration.IntakeEvent, dailyTotal int, err error)
	GetIntakePattern(ctx context.Context, phoneNumber string, days int) (*hydration.PatternReport, error)
	LogSteps(ctx context.Context, phoneNumber string, stepsCount int) (entry *steps.Entry, dailyTotal int, err error)
	LogHealthMetrics(ctx context.Context, phoneNumber string, rec health.Record) (*health.Record, error)
	GetHealthSummary(ctx context.Context, phoneNumber string) (*health.Summary, error)
	GetHealthTip(ctx context.Context, category string) (*tips.Tip, error)
}

// ContextService holds dependencies and implements the healthtrack context business logic.
type ContextService struct {
	schema    SchemaRepo
	users     userResolver
	hydration hydrationRepo
	analyzer  intakeAnalyzer
	steps     stepsRepo
	records   recordsRepo
	summaries summaryProvider
	tips      tipsRepo
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(
	schemaRepo SchemaRepo,
	users userResolver,
	hydrationRepo hydrationRepo,
	analyzer intakeAnalyzer,
	stepsRepo stepsRepo,
	recordsRepo recordsRepo,
	summaries summaryProvider,
	tipsRepo tipsRepo,
) *ContextService {
	return &ContextService{
		schema:    schemaRepo,
		users:     users,
		hydration: hydrationRepo,
		analyzer:  analyzer,
		steps:     stepsRepo,
		records:   recordsRepo,
		summaries: summaries,
		tips:      tipsRepo,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for healthtrack
// tables: app_user, water_log, step_log, health_record, health_tip.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetHealthtrackColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatHealthtrackSchema(cols), nil
}

func formatHealthtrackSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# HealthTrack DB Schema\n\nNo healthtrack tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# HealthTrack DB Schema\n\n")
	b.WriteString("Tables: app_user, water_log, step_log, health_record, health_tip (schema: public).\n\n")

	for _, tableName := range tableOrder {
		tableCols := byTable[tableName]
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range tableCols {
			def := "—"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// LogWaterIntake stores a new intake event for the user with the given phone
// number and returns it together with the new daily total.
func (s *ContextService) LogWaterIntake(
	ctx context.Context,
	phoneNumber string,
	amount int,
	note string,
) (*hydration.IntakeEvent, int, error) {
	userID, err := s.users.ResolveID(ctx, phoneNumber)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve user: %w", err)
	}

	now := time.Now()
	event, err := s.hydration.Add(ctx, hydration.IntakeEvent{
		UserID:    userID,
		Amount:    amount,
		Note:      note,
		Timestamp: now,
	})
	if err != nil {
		return nil, 0, err
	}

	dailyTotal, err := s.hydration.DailyTotal(ctx, userID, now)
	if err != nil {
		// total is informational, the log itself went through
		dailyTotal = event.Amount
	}

	return event, dailyTotal, nil
}

// GetIntakePattern analyzes the user's water intake events. A days value of 0
// means the full history.
func (s *ContextService) GetIntakePattern(ctx context.Context, phoneNumber string, days int) (*hydration.PatternReport, error) {
	userID, err := s.users.ResolveID(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	params := hydration.IntakeParams{UserID: userID}
	if days > 0 {
		from := time.Now().AddDate(0, 0, -days)
		params.From = &from
	}

	return s.analyzer.IntakePattern(ctx, params)
}

// LogSteps stores a new step entry for the user with the given phone number
// and returns it together with the new daily total.
func (s *ContextService) LogSteps(ctx context.Context, phoneNumber string, stepsCount int) (*steps.Entry, int, error) {
	userID, err := s.users.ResolveID(ctx, phoneNumber)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve user: %w", err)
	}

	now := time.Now()
	entry, err := s.steps.Add(ctx, steps.Entry{
		UserID:    userID,
		Steps:     stepsCount,
		Timestamp: now,
	})
	if err != nil {
		return nil, 0, err
	}

	dailyTotal, err := s.steps.DailyTotal(ctx, userID, now)
	if err != nil {
		dailyTotal = entry.Steps
	}

	return entry, dailyTotal, nil
}

// LogHealthMetrics stores a new health record for the user with the given phone number.
func (s *ContextService) LogHealthMetrics(ctx context.Context, phoneNumber string, rec health.Record) (*health.Record, error) {
	userID, err := s.users.ResolveID(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	rec.UserID = userID
	now := time.Now()
	if rec.RecordDate.IsZero() {
		rec.RecordDate = now
	}
	rec.CreatedAt = now

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return s.records.Add(ctx, rec)
}

// GetHealthSummary returns the combined daily summary for the user with the given phone number.
func (s *ContextService) GetHealthSummary(ctx context.Context, phoneNumber string) (*health.Summary, error) {
	userID, err := s.users.ResolveID(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return s.summaries.Summary(ctx, userID)
}

// GetHealthTip returns a random tip, optionally narrowed down to a category.
func (s *ContextService) GetHealthTip(ctx context.Context, category string) (*tips.Tip, error) {
	return s.tips.Random(ctx, category)
}
