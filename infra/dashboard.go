package main

import (
	"github.com/goccy/go-json"
)

const (
	successRatioExpression = "IF(cnt > 0, (cnt - e5) / cnt, 1)"
	successRatioThreshold  = 0.95
	dashboardWidth         = 24
	widgetHeight           = 6
)

// dashboardSpec names everything the backup dashboard plots.
type dashboardSpec struct {
	Region          string
	UploadAPI       string
	UploadStage     string
	ReportFunctions []string
	RawBuckets      []string
	ReportTopic     string
	RatioAlarmArn   string
}

type widget struct {
	Type       string `json:"type"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Properties any    `json:"properties"`
}

type textProperties struct {
	Markdown string `json:"markdown"`
}

type alarmProperties struct {
	Title  string   `json:"title"`
	Alarms []string `json:"alarms"`
}

type metricProperties struct {
	Title   string  `json:"title"`
	Region  string  `json:"region"`
	View    string  `json:"view"`
	Stacked bool    `json:"stacked"`
	Period  int     `json:"period"`
	Stat    string  `json:"stat,omitempty"`
	Metrics [][]any `json:"metrics"`
}

type dashboard struct {
	Widgets []widget `json:"widgets"`
}

// layout places widgets left to right, wrapping rows at the dashboard width.
type layout struct {
	x, y, rowHeight int
	widgets         []widget
}

func (l *layout) add(typ string, width, height int, props any) {
	if l.x+width > dashboardWidth {
		l.x, l.y, l.rowHeight = 0, l.y+l.rowHeight, 0
	}
	l.widgets = append(l.widgets, widget{Type: typ, X: l.x, Y: l.y, Width: width, Height: height, Properties: props})
	l.x += width
	if height > l.rowHeight {
		l.rowHeight = height
	}
}

func (l *layout) newRow() {
	if l.x > 0 {
		l.x, l.y, l.rowHeight = 0, l.y+l.rowHeight, 0
	}
}

func metric(namespace, name string, dims ...string) []any {
	m := []any{namespace, name}
	for _, d := range dims {
		m = append(m, d)
	}
	return m
}

func withOptions(m []any, opts map[string]any) []any {
	return append(m, opts)
}

// buildDashboardBody renders the CloudWatch dashboard JSON.
func buildDashboardBody(d dashboardSpec) (string, error) {
	l := &layout{}

	l.add("text", dashboardWidth, 2, textProperties{
		Markdown: "# Tripolis Pizza Backup Monitoring\n" +
			"Tracks ingestion health (success ratio), S3 backups, the daily report functions, " +
			"SNS email delivery and alarm notifications.",
	})
	l.newRow()

	l.add("metric", 16, widgetHeight, metricProperties{
		Title:  "Ingestion Success Ratio (Successful / Total)",
		Region: d.Region,
		View:   "timeSeries",
		Period: 300,
		Metrics: [][]any{
			{map[string]any{"expression": successRatioExpression, "label": "Ingestion Success Ratio", "id": "ratio"}},
			withOptions(metric("AWS/ApiGateway", "Count", "ApiName", d.UploadAPI, "Stage", d.UploadStage), map[string]any{"id": "cnt", "stat": "Sum", "visible": false}),
			withOptions(metric("AWS/ApiGateway", "5XXError", "ApiName", d.UploadAPI, "Stage", d.UploadStage), map[string]any{"id": "e5", "stat": "Sum", "visible": false}),
		},
	})
	l.add("alarm", 8, widgetHeight, alarmProperties{
		Title:  "ALARM: Ingestion Success Ratio < 0.95",
		Alarms: []string{d.RatioAlarmArn},
	})
	l.newRow()

	var sizes [][]any
	for _, b := range d.RawBuckets {
		sizes = append(sizes,
			withOptions(metric("AWS/S3", "NumberOfObjects", "BucketName", b, "StorageType", "AllStorageTypes"), map[string]any{"period": 3600}),
			withOptions(metric("AWS/S3", "BucketSizeBytes", "BucketName", b, "StorageType", "StandardStorage"), map[string]any{"period": 3600, "yAxis": "right"}),
		)
	}
	l.add("metric", dashboardWidth, widgetHeight, metricProperties{
		Title:   "Raw Backup Buckets: Files & Size",
		Region:  d.Region,
		View:    "timeSeries",
		Period:  3600,
		Stat:    "Average",
		Metrics: sizes,
	})
	l.newRow()

	var report [][]any
	for _, fn := range d.ReportFunctions {
		report = append(report,
			withOptions(metric("AWS/Lambda", "Duration", "FunctionName", fn), map[string]any{"stat": "p95"}),
			withOptions(metric("AWS/Lambda", "Errors", "FunctionName", fn), map[string]any{"stat": "Sum", "yAxis": "right"}),
		)
	}
	l.add("metric", 12, widgetHeight, metricProperties{
		Title:   "Report Functions: Duration & Errors",
		Region:  d.Region,
		View:    "timeSeries",
		Period:  300,
		Metrics: report,
	})
	l.add("metric", 12, widgetHeight, metricProperties{
		Title:  "SNS Delivery Health (Delivered vs Failed)",
		Region: d.Region,
		View:   "timeSeries",
		Period: 300,
		Stat:   "Sum",
		Metrics: [][]any{
			metric("AWS/SNS", "NumberOfNotificationsDelivered", "TopicName", d.ReportTopic),
			metric("AWS/SNS", "NumberOfNotificationsFailed", "TopicName", d.ReportTopic),
		},
	})
	l.newRow()

	var classes [][]any
	for _, b := range d.RawBuckets {
		for _, st := range []string{"StandardStorage", "StandardIAStorage", "IntelligentTieringFAStorage"} {
			classes = append(classes, metric("AWS/S3", "NumberOfObjects", "BucketName", b, "StorageType", st))
		}
	}
	l.add("metric", dashboardWidth, widgetHeight, metricProperties{
		Title:   "Raw Bucket Storage Classes (Distribution)",
		Region:  d.Region,
		View:    "pie",
		Period:  3600,
		Stat:    "Average",
		Metrics: classes,
	})

	b, err := json.Marshal(dashboard{Widgets: l.widgets})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
