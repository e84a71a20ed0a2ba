package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/healthtrack/internal/health"
	"github.com/2beens/healthtrack/internal/hydration"
	"github.com/2beens/healthtrack/internal/steps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllHealthRecords(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM health_record")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newHealthRecordRequest(
	ctx context.Context,
	record health.AddRecordRequest,
) health.Record {
	recordJson, err := json.Marshal(record)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/health/record", serverEndpoint),
		bytes.NewReader(recordJson),
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

	var added health.Record
	require.NoError(s.T(), json.Unmarshal(respBytes, &added))

	return added
}

func (s *IntegrationTestSuite) TestHealth_RecordsAndLatest() {
	ctx := context.Background()
	s.deleteAllHealthRecords(ctx)

	weight := 82.5
	added := s.newHealthRecordRequest(ctx, health.AddRecordRequest{
		WeightKg: &weight,
		Notes:    "after vacation",
	})
	assert.True(s.T(), added.ID > 0)
	require.NotNil(s.T(), added.WeightKg)
	assert.Equal(s.T(), 82.5, *added.WeightKg)

	sleep := 7.5
	mood := 8
	s.newHealthRecordRequest(ctx, health.AddRecordRequest{
		SleepHours: &sleep,
		MoodScore:  &mood,
	})

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/health/record/latest", serverEndpoint),
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

	var latest health.Record
	require.NoError(s.T(), json.Unmarshal(respBytes, &latest))
	require.NotNil(s.T(), latest.SleepHours)
	assert.Equal(s.T(), 7.5, *latest.SleepHours)

	listReq, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/health/records?days=7", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	listReq.Header.Set("User-Agent", "test-agent")
	listReq.Header.Set("X-User-Phone", testUserPhone)

	listResp, err := s.httpClient.Do(listReq)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, listResp.StatusCode)
	defer listResp.Body.Close()

	listBytes, err := io.ReadAll(listResp.Body)
	require.NoError(s.T(), err)

	var list health.ListRecordsResponse
	require.NoError(s.T(), json.Unmarshal(listBytes, &list))
	assert.Len(s.T(), list.Records, 2)
}

func (s *IntegrationTestSuite) TestHealth_Summary() {
	ctx := context.Background()
	s.deleteAllHealthRecords(ctx)
	s.deleteAllIntakes(ctx)
	s.deleteAllStepEntries(ctx)

	s.newIntakeRequest(ctx, hydration.LogIntakeRequest{Amount: 1250})
	s.newStepsRequest(ctx, steps.LogStepsRequest{Steps: 4000})

	energy := 6
	s.newHealthRecordRequest(ctx, health.AddRecordRequest{EnergyLevel: &energy})

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/health/summary", serverEndpoint),
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

	var summary health.Summary
	require.NoError(s.T(), json.Unmarshal(respBytes, &summary))
	assert.Equal(s.T(), 1250, summary.WaterTodayMl)
	assert.Equal(s.T(), 50.0, summary.WaterPercentage)
	assert.Equal(s.T(), 4000, summary.StepsToday)
	assert.Equal(s.T(), 40.0, summary.StepsPercentage)
	require.NotNil(s.T(), summary.LatestRecord)
	require.NotNil(s.T(), summary.LatestRecord.EnergyLevel)
	assert.Equal(s.T(), 6, *summary.LatestRecord.EnergyLevel)
}
