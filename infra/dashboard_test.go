package main

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodedWidget struct {
	Type       string         `json:"type"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Properties map[string]any `json:"properties"`
}

func decodeDashboard(t *testing.T, body string) []decodedWidget {
	t.Helper()
	var d struct {
		Widgets []decodedWidget `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	return d.Widgets
}

func testDashboard() dashboardSpec {
	return dashboardSpec{
		Region:          "us-east-1",
		UploadAPI:       "tripolis-upload-api-prod",
		UploadStage:     "prod",
		ReportFunctions: []string{"tripolis-daily-report-valdez-prod", "tripolis-daily-report-sparta-prod"},
		RawBuckets:      []string{"tripolis-backup-valdez-prod", "tripolis-backup-sparta-prod"},
		ReportTopic:     "tripolis-daily-report-topic-prod",
		RatioAlarmArn:   "arn:aws:cloudwatch:us-east-1:123456789012:alarm:ratio",
	}
}

func TestBuildDashboardBody_Layout(t *testing.T) {
	body, err := buildDashboardBody(testDashboard())
	require.NoError(t, err)

	widgets := decodeDashboard(t, body)
	require.Len(t, widgets, 7)

	type pos struct {
		typ     string
		x, y, w int
	}
	var got []pos
	for _, w := range widgets {
		got = append(got, pos{w.Type, w.X, w.Y, w.Width})
		assert.LessOrEqual(t, w.X+w.Width, 24)
	}
	assert.Equal(t, []pos{
		{"text", 0, 0, 24},
		{"metric", 0, 2, 16},
		{"alarm", 16, 2, 8},
		{"metric", 0, 8, 24},
		{"metric", 0, 14, 12},
		{"metric", 12, 14, 12},
		{"metric", 0, 20, 24},
	}, got)
}

func TestBuildDashboardBody_SuccessRatio(t *testing.T) {
	body, err := buildDashboardBody(testDashboard())
	require.NoError(t, err)
	widgets := decodeDashboard(t, body)

	ratio := widgets[1].Properties
	metrics := ratio["metrics"].([]any)
	require.Len(t, metrics, 3)
	expr := metrics[0].([]any)[0].(map[string]any)
	assert.Equal(t, "IF(cnt > 0, (cnt - e5) / cnt, 1)", expr["expression"])

	// The upload function reports failures as 500 responses, which only the
	// API stage metrics see.
	cnt := metrics[1].([]any)
	assert.Equal(t, []any{"AWS/ApiGateway", "Count", "ApiName", "tripolis-upload-api-prod", "Stage", "prod"}, cnt[:6])
	e5 := metrics[2].([]any)
	assert.Equal(t, []any{"AWS/ApiGateway", "5XXError", "ApiName", "tripolis-upload-api-prod", "Stage", "prod"}, e5[:6])
	assert.NotContains(t, body, "AWS/Lambda\",\"Invocations")

	alarm := widgets[2].Properties
	assert.Equal(t, []any{"arn:aws:cloudwatch:us-east-1:123456789012:alarm:ratio"}, alarm["alarms"])
}

func TestBuildDashboardBody_PerDatacenterSeries(t *testing.T) {
	body, err := buildDashboardBody(testDashboard())
	require.NoError(t, err)
	widgets := decodeDashboard(t, body)

	assert.Len(t, widgets[3].Properties["metrics"], 4)
	assert.Len(t, widgets[4].Properties["metrics"], 4)
	assert.Len(t, widgets[5].Properties["metrics"], 2)

	pie := widgets[6].Properties
	assert.Equal(t, "pie", pie["view"])
	assert.Len(t, pie["metrics"], 6)
}

func TestBuildDashboardBody_NoDatacenters(t *testing.T) {
	d := testDashboard()
	d.ReportFunctions, d.RawBuckets = nil, nil

	body, err := buildDashboardBody(d)
	require.NoError(t, err)
	assert.Len(t, decodeDashboard(t, body), 7)
}
