package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raesene/messenger-stats/pkg/models"
)

func sampleStats() *models.ConversationStats {
	return &models.ConversationStats{
		HourCount:    map[int]int{0: 2, 13: 5},
		DayCount:     map[string]int{"2026-10-10": 3, "2026-10-12": 1},
		MonthCount:   map[string]int{"2026-07": 4, "2026-09": 2},
		DayNameCount: map[string]int{"Monday": 3, "Saturday": 1},
	}
}

var now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric(" Hourly ")
	require.NoError(t, err)
	assert.Equal(t, Hourly, m)

	_, err = ParseMetric("yearly")
	assert.Error(t, err)
}

func TestBuildHourly(t *testing.T) {
	s, err := Build(Hourly, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	require.Len(t, s.Bars, 24)
	assert.Equal(t, Bar{Label: "00:00", Count: 2}, s.Bars[0])
	assert.Equal(t, Bar{Label: "13:00", Count: 5}, s.Bars[13])
	assert.Equal(t, Bar{Label: "23:00", Count: 0}, s.Bars[23])
	assert.Equal(t, "Hourly message count between You and Alice Smith", s.Title)
	assert.Equal(t, 5, s.Max())
}

func TestBuildWeekday(t *testing.T) {
	s, err := Build(Weekday, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	require.Len(t, s.Bars, 7)
	assert.Equal(t, "Sunday", s.Bars[0].Label)
	assert.Equal(t, Bar{Label: "Monday", Count: 3}, s.Bars[1])
	assert.Equal(t, Bar{Label: "Saturday", Count: 1}, s.Bars[6])
}

func TestBuildDailyFillsToNow(t *testing.T) {
	s, err := Build(Daily, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	assert.Equal(t, []Bar{
		{Label: "2026-10-10", Count: 3},
		{Label: "2026-10-11", Count: 0},
		{Label: "2026-10-12", Count: 1},
		{Label: "2026-10-13", Count: 0},
		{Label: "2026-10-14", Count: 0},
	}, s.Bars)
}

func TestBuildMonthlyFillsToNow(t *testing.T) {
	s, err := Build(Monthly, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	assert.Equal(t, []Bar{
		{Label: "2026-07", Count: 4},
		{Label: "2026-08", Count: 0},
		{Label: "2026-09", Count: 2},
		{Label: "2026-10", Count: 0},
	}, s.Bars)
}

func TestBuildEmptyStats(t *testing.T) {
	empty := &models.ConversationStats{
		HourCount:    map[int]int{},
		DayCount:     map[string]int{},
		MonthCount:   map[string]int{},
		DayNameCount: map[string]int{},
	}
	for _, m := range Metrics {
		t.Run(string(m), func(t *testing.T) {
			s, err := Build(m, empty, "You", "Alice Smith", now)
			require.NoError(t, err)
			assert.Zero(t, s.Max())

			var buf bytes.Buffer
			require.NoError(t, Render(&buf, s))
		})
	}
}

func TestBuildUnknownMetric(t *testing.T) {
	_, err := Build(Metric("yearly"), sampleStats(), "You", "Alice Smith", now)
	assert.Error(t, err)
}

func TestRenderEscapesNames(t *testing.T) {
	s, err := Build(Hourly, sampleStats(), "You", "<script>alert(1)</script>", now)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Equal(t, 24, bytes.Count(buf.Bytes(), []byte(`class="bar"`)))
}

func TestServerRoutes(t *testing.T) {
	s, err := Build(Daily, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(s, zap.NewNop()).Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Daily message count between You and Alice Smith")

	resp, err = http.Get(ts.URL + "/data.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got Series
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, s, got)

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, err := Build(Hourly, sampleStats(), "You", "Alice Smith", now)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- NewServer(s, nil).ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a })
	}()

	addr := <-addrCh
	resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
