package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var okPing = pingFunc(func(context.Context) error { return nil })

func TestHealth_AllUp(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hc := NewHealthChecker(okPing, client, okPing)
	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["database"].Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)
	assert.Equal(t, "up", status.Checks["archive"].Status)
}

func TestHealth_DatabasePoolStats(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(4)
	mock.ExpectPing()

	hc := NewHealthChecker(postgres.NewPool(db, 0), nil, nil)
	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	dbCheck := status.Checks["database"]
	assert.Equal(t, "up", dbCheck.Status)
	require.NotNil(t, dbCheck.Pool)
	assert.Equal(t, 4, dbCheck.Pool.MaxOpen)
	assert.Nil(t, status.Checks["archive"].Pool)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth_RedisNotConfiguredIsHealthy(t *testing.T) {
	hc := NewHealthChecker(okPing, nil, okPing)
	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestHealth_DatabaseDownIsNotReady(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	hc := NewHealthChecker(down, nil, okPing)

	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":false`)

	rec = httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestHealth_RedisDownIsDegraded(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	hc := NewHealthChecker(okPing, client, okPing)
	checks := hc.runAllChecks(context.Background())
	assert.Equal(t, "down", checks["redis"].Status)
	assert.Equal(t, "degraded", determineOverallStatus(checks))
}

func TestHealth_Liveness(t *testing.T) {
	hc := NewHealthChecker(nil, nil, nil)
	rec := httptest.NewRecorder()
	hc.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, "healthy", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "up"},
		"redis":    {Status: "down", Message: "not configured"},
	}))
	assert.Equal(t, "degraded", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "degraded"},
	}))
	assert.Equal(t, "unhealthy", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "down", Message: "ping failed"},
	}))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 0s", formatUptime(time.Hour))
	assert.Equal(t, "1d 2h 0m 0s", formatUptime(26*time.Hour))
}
