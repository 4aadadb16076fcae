package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestObserve(t *testing.T) {
	m := New()

	m.Observe("pond.do", map[string]float64{"water.do_mgl": 8.25, "water.temperature": 21}, 0, 120*time.Millisecond, nil)
	body := scrape(t, m)
	assert.Contains(t, body, `smh_sensor_value{cap="water.do_mgl",sensor="pond.do"} 8.25`)
	assert.Contains(t, body, `smh_sensor_value{cap="water.temperature",sensor="pond.do"} 21`)
	assert.Contains(t, body, `smh_sensor_status{sensor="pond.do"} 0`)
	assert.Contains(t, body, `smh_sensor_last_success_timestamp_seconds{sensor="pond.do"}`)
	assert.NotContains(t, body, `smh_sensor_poll_errors_total{sensor="pond.do"}`)

	m.Observe("pond.do", nil, 0xFF, time.Second, errors.New("timeout"))
	body = scrape(t, m)
	assert.Contains(t, body, `smh_sensor_poll_errors_total{sensor="pond.do"} 1`)
	assert.Contains(t, body, `smh_sensor_status{sensor="pond.do"} 255`)
	assert.Contains(t, body, `smh_sensor_value{cap="water.do_mgl",sensor="pond.do"} 8.25`)
	assert.Contains(t, body, `smh_sensor_poll_seconds_count{sensor="pond.do"} 2`)
}
