package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/healthtrack/internal/hydration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllIntakes(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM water_log")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newIntakeRequest(
	ctx context.Context,
	intake hydration.LogIntakeRequest,
) hydration.LogIntakeResponse {
	intakeJson, err := json.Marshal(intake)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/hydration", serverEndpoint),
		bytes.NewReader(intakeJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-User-Phone", testUserPhone)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var logged hydration.LogIntakeResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &logged))

	return logged
}

func (s *IntegrationTestSuite) getIntakePattern(ctx context.Context, days int) *hydration.PatternReport {
	patternURL := fmt.Sprintf("%s/hydration/pattern", serverEndpoint)
	if days > 0 {
		patternURL = fmt.Sprintf("%s?days=%d", patternURL, days)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", patternURL, nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-User-Phone", testUserPhone)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var report hydration.PatternReport
	require.NoError(s.T(), json.Unmarshal(respBytes, &report))

	return &report
}

func (s *IntegrationTestSuite) deleteIntakeRequest(ctx context.Context, id int) hydration.DeleteIntakeResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/hydration/%d", serverEndpoint, id),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-User-Phone", testUserPhone)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var deleted hydration.DeleteIntakeResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &deleted))

	return deleted
}

func (s *IntegrationTestSuite) TestHydration_LogAndToday() {
	ctx := context.Background()
	s.deleteAllIntakes(ctx)

	logged := s.newIntakeRequest(ctx, hydration.LogIntakeRequest{
		Amount: 500,
		Note:   "morning glass",
	})
	assert.True(s.T(), logged.ID > 0)
	assert.Equal(s.T(), 500, logged.Amount)
	assert.Equal(s.T(), 500, logged.DailyTotal)

	logged = s.newIntakeRequest(ctx, hydration.LogIntakeRequest{Amount: 750})
	assert.Equal(s.T(), 1250, logged.DailyTotal)
	assert.Equal(s.T(), 1250, logged.Goal-logged.RemainingMl)

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/hydration/today", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-User-Phone", testUserPhone)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var today hydration.TodayResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &today))
	assert.Equal(s.T(), 1250, today.DailyTotal)
	assert.Equal(s.T(), 50.0, today.Percentage)
	assert.Equal(s.T(), 1250, today.RemainingMl)
}

func (s *IntegrationTestSuite) TestHydration_Pattern() {
	ctx := context.Background()
	s.deleteAllIntakes(ctx)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	for _, intake := range []hydration.LogIntakeRequest{
		{Amount: 1000, Timestamp: &yesterday},
		{Amount: 1000, Timestamp: &yesterday},
		{Amount: 1500, Timestamp: &now},
		{Amount: 500, Timestamp: &now},
	} {
		s.newIntakeRequest(ctx, intake)
	}

	report := s.getIntakePattern(ctx, 0)
	// both days total 2000ml
	assert.Equal(s.T(), 2000, report.AverageDaily)
	assert.Equal(s.T(), 100.0, report.Consistency)
	assert.NotEmpty(s.T(), report.BestHour)
	assert.NotNil(s.T(), report.Recommendations)

	// a second read comes from the cached report and must match
	cached := s.getIntakePattern(ctx, 0)
	assert.Equal(s.T(), report, cached)

	// narrowing down to the last day changes the average
	report = s.getIntakePattern(ctx, 1)
	assert.Equal(s.T(), 2000, report.AverageDaily)
}

func (s *IntegrationTestSuite) TestHydration_PatternAfterDelete() {
	ctx := context.Background()
	s.deleteAllIntakes(ctx)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	backdated := s.newIntakeRequest(ctx, hydration.LogIntakeRequest{
		Amount:    2000,
		Timestamp: &yesterday,
	})
	s.newIntakeRequest(ctx, hydration.LogIntakeRequest{
		Amount:    1000,
		Timestamp: &now,
	})

	report := s.getIntakePattern(ctx, 0)
	assert.Equal(s.T(), 1500, report.AverageDaily)

	// removing the yesterday-dated intake must evict the cached report
	deleted := s.deleteIntakeRequest(ctx, backdated.ID)
	assert.Equal(s.T(), backdated.ID, deleted.DeletedID)

	report = s.getIntakePattern(ctx, 0)
	assert.Equal(s.T(), 1000, report.AverageDaily)
}

func (s *IntegrationTestSuite) TestHydration_ListAndDelete() {
	ctx := context.Background()
	s.deleteAllIntakes(ctx)

	var lastID int
	for i := 0; i < 5; i++ {
		logged := s.newIntakeRequest(ctx, hydration.LogIntakeRequest{Amount: 300})
		lastID = logged.ID
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/hydration/list/page/1/size/3", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-User-Phone", testUserPhone)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var list hydration.ListResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &list))
	assert.Equal(s.T(), 5, list.Total)
	assert.Len(s.T(), list.Intakes, 3)

	deleted := s.deleteIntakeRequest(ctx, lastID)
	assert.Equal(s.T(), lastID, deleted.DeletedID)
}
