package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/liftlog/internal/fitness"
	"github.com/2beens/liftlog/internal/fitness/body"
	"github.com/2beens/liftlog/internal/fitness/catalog"
	"github.com/2beens/liftlog/internal/fitness/records"
	"github.com/2beens/liftlog/internal/fitness/routines"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doAuthedRequest(
	ctx context.Context,
	t *testing.T,
	token string,
	method, path string,
	reqBody any,
) (int, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if reqBody != nil {
		reqJson, err := json.Marshal(reqBody)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(reqJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-SERJ-TOKEN", token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestFitness_authRequired() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statusCode, _ := s.doAuthedRequest(ctx, t, "", "GET", "/fit/catalog/muscles", nil)
	assert.Equal(t, http.StatusUnauthorized, statusCode)
}

func (s *IntegrationTestSuite) TestFitness_seededDefaults() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)

	statusCode, respBytes := s.doAuthedRequest(ctx, t, token, "GET", "/fit/routines/", nil)
	require.Equal(t, http.StatusOK, statusCode)

	var routinesResp routines.RoutinesResponse
	require.NoError(t, json.Unmarshal(respBytes, &routinesResp))
	require.NotEmpty(t, routinesResp.Routines)

	var seeded *fitness.Routine
	for i := range routinesResp.Routines {
		if routinesResp.Routines[i].Name == "Rutina de Ejemplo" {
			seeded = &routinesResp.Routines[i]
			break
		}
	}
	require.NotNil(t, seeded, "default routine not seeded")
	assert.True(t, seeded.IsActive)

	statusCode, respBytes = s.doAuthedRequest(
		ctx, t, token, "GET",
		fmt.Sprintf("/fit/routines/%s/days", seeded.ID), nil,
	)
	require.Equal(t, http.StatusOK, statusCode)

	var daysResp routines.DaysResponse
	require.NoError(t, json.Unmarshal(respBytes, &daysResp))
	require.Len(t, daysResp.Days, 2)
	assert.Equal(t, "Día 1", daysResp.Days[0].Name)
	assert.Equal(t, "Día 2", daysResp.Days[1].Name)

	statusCode, respBytes = s.doAuthedRequest(ctx, t, token, "GET", "/fit/catalog/muscles", nil)
	require.Equal(t, http.StatusOK, statusCode)

	var muscleGroupsResp catalog.MuscleGroupsResponse
	require.NoError(t, json.Unmarshal(respBytes, &muscleGroupsResp))
	seededNames := make([]string, 0, len(muscleGroupsResp.MuscleGroups))
	for _, mg := range muscleGroupsResp.MuscleGroups {
		seededNames = append(seededNames, mg.Name)
	}
	assert.Contains(t, seededNames, "Pecho")
	assert.Contains(t, seededNames, "Espalda")
	assert.Contains(t, seededNames, "Piernas")
}

func (s *IntegrationTestSuite) TestFitness_catalogAndRecords() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)

	statusCode, respBytes := s.doAuthedRequest(
		ctx, t, token, "POST", "/fit/catalog/muscles",
		fitness.MuscleGroup{Name: "Hombros", Color: "#f59e0b"},
	)
	require.Equal(t, http.StatusCreated, statusCode)

	var addedMuscleGroup catalog.AddedResponse
	require.NoError(t, json.Unmarshal(respBytes, &addedMuscleGroup))
	require.NotEmpty(t, addedMuscleGroup.ID)

	// the catalog is served from the synced mirror, the new muscle group
	// shows up after the change notification went through
	require.Eventually(t, func() bool {
		statusCode, respBytes := s.doAuthedRequest(ctx, t, token, "GET", "/fit/catalog/muscles", nil)
		if statusCode != http.StatusOK {
			return false
		}
		var muscleGroupsResp catalog.MuscleGroupsResponse
		if err := json.Unmarshal(respBytes, &muscleGroupsResp); err != nil {
			return false
		}
		for _, mg := range muscleGroupsResp.MuscleGroups {
			if mg.ID == addedMuscleGroup.ID && mg.Name == "Hombros" {
				return true
			}
		}
		return false
	}, 10*time.Second, 100*time.Millisecond)

	statusCode, respBytes = s.doAuthedRequest(
		ctx, t, token, "POST", "/fit/catalog/exercises",
		map[string]any{
			"name":          "Press Militar",
			"muscleGroupId": addedMuscleGroup.ID,
			"goal":          "60",
			"goalReps":      "1",
		},
	)
	require.Equal(t, http.StatusCreated, statusCode)

	var addedExercise catalog.AddedResponse
	require.NoError(t, json.Unmarshal(respBytes, &addedExercise))
	require.NotEmpty(t, addedExercise.ID)

	statusCode, respBytes = s.doAuthedRequest(
		ctx, t, token, "POST", "/fit/records/",
		map[string]any{
			"exerciseId": addedExercise.ID,
			"weight":     "40",
			"reps":       "5",
			"date":       "2026-09-01",
			"note":       "buen dia",
		},
	)
	require.Equal(t, http.StatusCreated, statusCode)

	var addedRecord records.AddedResponse
	require.NoError(t, json.Unmarshal(respBytes, &addedRecord))
	require.NotEmpty(t, addedRecord.ID)

	require.Eventually(t, func() bool {
		statusCode, respBytes := s.doAuthedRequest(ctx, t, token, "GET", "/fit/records/list", nil)
		if statusCode != http.StatusOK {
			return false
		}
		var listResp records.ListResponse
		if err := json.Unmarshal(respBytes, &listResp); err != nil {
			return false
		}
		for _, record := range listResp.Records {
			if record.ID != addedRecord.ID {
				continue
			}
			// epley: 40 * (1 + 5/30)
			assert.InDelta(t, 46.67, record.E1RM, 0.001)
			assert.InDelta(t, 200.0, record.Volume, 0.001)
			assert.Equal(t, "Press Militar", record.ExerciseName)
			return true
		}
		return false
	}, 10*time.Second, 100*time.Millisecond)
}

func (s *IntegrationTestSuite) TestFitness_bodyMeasurements() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := doLogin(ctx, t)

	statusCode, respBytes := s.doAuthedRequest(
		ctx, t, token, "PUT", "/fit/body/profile",
		map[string]any{"height": "180"},
	)
	require.Equal(t, http.StatusOK, statusCode)

	var profileResp body.ProfileResponse
	require.NoError(t, json.Unmarshal(respBytes, &profileResp))
	assert.Equal(t, 180.0, profileResp.HeightCm)

	statusCode, respBytes = s.doAuthedRequest(
		ctx, t, token, "POST", "/fit/body/measurements",
		map[string]any{
			"date":    "2026-09-01",
			"weight":  "80",
			"bodyFat": "20",
		},
	)
	require.Equal(t, http.StatusCreated, statusCode)

	var addedMeasurement body.AddedResponse
	require.NoError(t, json.Unmarshal(respBytes, &addedMeasurement))
	require.NotEmpty(t, addedMeasurement.ID)

	require.Eventually(t, func() bool {
		statusCode, respBytes := s.doAuthedRequest(ctx, t, token, "GET", "/fit/body/summary", nil)
		if statusCode != http.StatusOK {
			return false
		}
		var summary body.Summary
		if err := json.Unmarshal(respBytes, &summary); err != nil {
			return false
		}
		if summary.Latest == nil || summary.Latest.ID != addedMeasurement.ID {
			return false
		}
		// bmi: 80 / 1.8^2
		if assert.NotNil(t, summary.BMI) {
			assert.InDelta(t, 24.69, *summary.BMI, 0.001)
		}
		assert.InDelta(t, 16.0, summary.Latest.FatMass, 0.001)
		assert.InDelta(t, 64.0, summary.Latest.LeanMass, 0.001)
		return true
	}, 10*time.Second, 100*time.Millisecond)
}
