package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveRender(t *testing.T) {
	r := NewRecorder()

	r.ObserveRender("plotly_hist", nil, time.Millisecond)
	r.ObserveRender("plotly_hist", nil, time.Millisecond)
	r.ObserveRender("seaborn_hist", errors.New("boom"), time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.renders.WithLabelValues("plotly_hist", StatusOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.renders.WithLabelValues("seaborn_hist", StatusError)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveRender("table", nil, time.Second)
	r.ObserveWidgetChange("selected_attribute")
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveWidgetChange("seaborn_bin_count")
	r.ObserveRender("table", nil, time.Microsecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `cintel_widget_changes_total{widget="seaborn_bin_count"} 1`)
	assert.Contains(t, body, `cintel_render_total{output="table",status="ok"} 1`)

	expected := `
# HELP cintel_widget_changes_total Accepted widget value changes.
# TYPE cintel_widget_changes_total counter
cintel_widget_changes_total{widget="seaborn_bin_count"} 1
`
	require.NoError(t, testutil.CollectAndCompare(r.widgetChanges, strings.NewReader(expected)))
}
