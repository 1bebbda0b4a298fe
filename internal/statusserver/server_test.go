package statusserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/keepaway/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := New("run-1", nil)

	w := get(t, s.Handler(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK\n", w.Body.String())
}

func TestStatus(t *testing.T) {
	s := New("run-1", nil)

	w := get(t, s.Handler(), "/status")
	require.Equal(t, http.StatusOK, w.Code)

	var empty Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Equal(t, Status{RunID: "run-1", Monkeys: []MonkeyStatus{}}, empty)

	require.NoError(t, s.RoundCompleted(context.Background(), simulation.Snapshot{
		Round:  3,
		Actors: []simulation.ActorActivity{{ID: 0, Activity: 7, Items: 2}},
	}))
	s.MarkDone()

	w = get(t, s.Handler(), "/status")
	var got Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, Status{
		RunID:   "run-1",
		Round:   3,
		Done:    true,
		Monkeys: []MonkeyStatus{{ID: 0, Activity: 7, Items: 2}},
	}, got)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(3)

	s := New("run-1", reg)
	w := get(t, s.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_total 3")
}

func TestMetrics_DisabledWithoutGatherer(t *testing.T) {
	s := New("run-1", nil)
	w := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartShutdown(t *testing.T) {
	ctx := context.Background()
	s := New("run-1", nil)

	addr, err := s.Start(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "OK\n", string(body))

	_, err = s.Start(ctx, "127.0.0.1:0")
	assert.Error(t, err, "starting twice must fail")

	require.NoError(t, s.Shutdown(ctx))
	http.DefaultClient.CloseIdleConnections()
}

func TestShutdown_NotStarted(t *testing.T) {
	assert.NoError(t, New("run-1", nil).Shutdown(context.Background()))
}
