// Package main runs the healthtrack MCP server over stdio (for local
// assistant use): logging water/steps/health metrics, intake pattern
// analysis, daily summary, tips and the backend DB schema.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/2beens/healthtrack/internal/config"
	"github.com/2beens/healthtrack/internal/db"
	"github.com/2beens/healthtrack/internal/health"
	"github.com/2beens/healthtrack/internal/hydration"
	"github.com/2beens/healthtrack/internal/mcpserver"
	"github.com/2beens/healthtrack/internal/steps"
	"github.com/2beens/healthtrack/internal/tips"
	"github.com/2beens/healthtrack/internal/user"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	users := user.NewService(user.NewRepo(dbPool))
	hydrationRepo := hydration.NewRepo(dbPool)
	stepsRepo := steps.NewRepo(dbPool)
	recordsRepo := health.NewRepo(dbPool)
	summaries := health.NewSummaryService(
		recordsRepo,
		hydrationRepo,
		stepsRepo,
		cfg.WaterGoalMl,
		cfg.StepsGoal,
	)

	server := mcpserver.NewServer(
		dbPool,
		users,
		hydrationRepo,
		stepsRepo,
		recordsRepo,
		summaries,
		tips.NewRepo(dbPool),
	)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
