package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/healthtrack/internal/steps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllStepEntries(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM step_log")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newStepsRequest(
	ctx context.Context,
	entry steps.LogStepsRequest,
) steps.LogStepsResponse {
	entryJson, err := json.Marshal(entry)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/steps", serverEndpoint),
		bytes.NewReader(entryJson),
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

	var logged steps.LogStepsResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &logged))

	return logged
}

func (s *IntegrationTestSuite) TestSteps_LogAndToday() {
	ctx := context.Background()
	s.deleteAllStepEntries(ctx)

	distance := 2.5
	logged := s.newStepsRequest(ctx, steps.LogStepsRequest{
		Steps:      4000,
		DistanceKm: &distance,
	})
	assert.True(s.T(), logged.ID > 0)
	assert.Equal(s.T(), 4000, logged.DailyTotal)
	assert.Equal(s.T(), 40.0, logged.Percentage)
	assert.Equal(s.T(), "6000 steps to go", logged.Status)

	logged = s.newStepsRequest(ctx, steps.LogStepsRequest{Steps: 6000})
	assert.Equal(s.T(), 10000, logged.DailyTotal)
	assert.Equal(s.T(), "goal reached, great job", logged.Status)

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/steps/today", serverEndpoint),
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

	var today steps.TodayResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &today))
	assert.Equal(s.T(), 10000, today.DailyTotal)
	assert.Equal(s.T(), 100.0, today.Percentage)
}

func (s *IntegrationTestSuite) listStepEntries(ctx context.Context) steps.ListResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/steps/list?days=7", serverEndpoint),
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

	var list steps.ListResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &list))

	return list
}

func (s *IntegrationTestSuite) TestSteps_ListAndDelete() {
	ctx := context.Background()
	s.deleteAllStepEntries(ctx)

	var lastID int
	for i := 0; i < 3; i++ {
		logged := s.newStepsRequest(ctx, steps.LogStepsRequest{Steps: 1000 * (i + 1)})
		lastID = logged.ID
	}

	list := s.listStepEntries(ctx)
	assert.Len(s.T(), list.Entries, 3)

	deleteReq, err := http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/steps/%d", serverEndpoint, lastID),
		nil,
	)
	require.NoError(s.T(), err)
	deleteReq.Header.Set("User-Agent", "test-agent")
	deleteReq.Header.Set("X-User-Phone", testUserPhone)

	deleteResp, err := s.httpClient.Do(deleteReq)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, deleteResp.StatusCode)
	defer deleteResp.Body.Close()

	deleteBytes, err := io.ReadAll(deleteResp.Body)
	require.NoError(s.T(), err)

	var deleted steps.DeleteEntryResponse
	require.NoError(s.T(), json.Unmarshal(deleteBytes, &deleted))
	assert.Equal(s.T(), lastID, deleted.DeletedID)

	list = s.listStepEntries(ctx)
	assert.Len(s.T(), list.Entries, 2)
}
