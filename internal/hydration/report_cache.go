package hydration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// reportCacheTTL keeps pattern reports around long enough to absorb
// repeated dashboard refreshes, short enough to pick up new logs soon
const reportCacheTTL = 15 * time.Minute

// ReportCache stores computed pattern reports in redis, keyed per user
// and calendar day, so repeated pattern requests skip the full analysis.
type ReportCache struct {
	redisClient *redis.Client
}

func NewReportCache(redisClient *redis.Client) *ReportCache {
	return &ReportCache{
		redisClient: redisClient,
	}
}

func reportKey(userID int, day string) string {
	return fmt.Sprintf("intake-pattern::%d::%s", userID, day)
}

func (c *ReportCache) Get(ctx context.Context, userID int, day string) (*PatternReport, bool) {
	cmd := c.redisClient.Get(ctx, reportKey(userID, day))
	if err := cmd.Err(); err != nil {
		if err != redis.Nil {
			log.Errorf("failed to get cached pattern report for user %d: %s", userID, err)
		}
		return nil, false
	}

	reportBytes := cmd.Val()
	if reportBytes == "" {
		return nil, false
	}

	report := &PatternReport{}
	if err := json.Unmarshal([]byte(reportBytes), report); err != nil {
		log.Errorf("failed to unmarshal cached pattern report for user %d: %s", userID, err)
		return nil, false
	}

	return report, true
}

func (c *ReportCache) Set(ctx context.Context, userID int, day string, report *PatternReport) {
	reportBytes, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal pattern report for user %d: %s", userID, err)
		return
	}

	if err := c.redisClient.Set(
		ctx,
		reportKey(userID, day),
		reportBytes,
		reportCacheTTL,
	).Err(); err != nil {
		log.Errorf("failed to cache pattern report for user %d: %s", userID, err)
	}
}

// Invalidate drops the cached report of a user for the given day, used
// after a new intake log so the next pattern request sees fresh data.
func (c *ReportCache) Invalidate(ctx context.Context, userID int, day string) {
	if err := c.redisClient.Del(ctx, reportKey(userID, day)).Err(); err != nil {
		log.Errorf("failed to invalidate pattern report for user %d: %s", userID, err)
	}
}
