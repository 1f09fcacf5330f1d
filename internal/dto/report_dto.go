package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// DateInputLayout is the layout accepted for start and end query values.
const DateInputLayout = "2006-01-02"

// ReportWindowRequest carries an optional date window from query strings or bodies.
type ReportWindowRequest struct {
	Start string `json:"start" query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Window converts the request into an engine window. A date-only end bound is
// extended to the last instant of that day so the whole day is included.
func (r ReportWindowRequest) Window() (report.DateWindow, error) {
	var window report.DateWindow
	if value := strings.TrimSpace(r.Start); value != "" {
		start, err := time.Parse(DateInputLayout, value)
		if err != nil {
			return report.DateWindow{}, fmt.Errorf("invalid start date: %w", err)
		}
		window.Start = &start
	}
	if value := strings.TrimSpace(r.End); value != "" {
		end, err := time.Parse(DateInputLayout, value)
		if err != nil {
			return report.DateWindow{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		window.End = &end
	}
	return window, nil
}

// ReportSelectRequest selects the viewer's active report.
type ReportSelectRequest struct {
	Kind string `json:"kind" validate:"required,oneof=registrations announcements"`
}

// ChartDatasetResponse is a dataset with presentation colors.
type ChartDatasetResponse struct {
	Key              string   `json:"key"`
	Label            string   `json:"label"`
	Values           []int    `json:"values"`
	BorderColor      string   `json:"border_color"`
	BackgroundColors []string `json:"background_colors"`
}

// ChartResponse is the chart payload consumed by the renderer.
type ChartResponse struct {
	Type     report.ChartKind       `json:"type"`
	Labels   []string               `json:"labels"`
	Datasets []ChartDatasetResponse `json:"datasets"`
}

// ReportWindowResponse echoes the applied window.
type ReportWindowResponse struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// ReportViewResponse is the assembled report returned to clients.
type ReportViewResponse struct {
	Kind     report.Kind          `json:"kind"`
	Selected report.Kind          `json:"selected,omitempty"`
	Chart    ChartResponse        `json:"chart"`
	Rows     []report.TableRow    `json:"rows"`
	Total    int                  `json:"total"`
	Window   ReportWindowResponse `json:"window"`
	Notice   string               `json:"notice,omitempty"`
}

// NewChartResponse assigns deterministic colors: datasets by dataset index,
// bars by label index so colors stay put while labels are stable.
func NewChartResponse(kind report.ChartKind, series report.ChartSeries) ChartResponse {
	datasets := make([]ChartDatasetResponse, 0, len(series.Datasets))
	for i, dataset := range series.Datasets {
		var backgrounds []string
		if kind == report.ChartBar {
			backgrounds = make([]string, len(series.Labels))
			for j := range series.Labels {
				backgrounds[j] = report.PaletteColor(j)
			}
		} else {
			backgrounds = []string{report.PaletteColor(i)}
		}
		datasets = append(datasets, ChartDatasetResponse{
			Key:              dataset.Key,
			Label:            dataset.Label,
			Values:           dataset.Values,
			BorderColor:      report.PaletteColor(i),
			BackgroundColors: backgrounds,
		})
	}
	return ChartResponse{Type: kind, Labels: series.Labels, Datasets: datasets}
}

// NewReportViewResponse converts an engine view into the API payload.
func NewReportViewResponse(view report.View, notice string) ReportViewResponse {
	rows := view.Rows
	if rows == nil {
		rows = []report.TableRow{}
	}
	return ReportViewResponse{
		Kind:   view.Kind,
		Chart:  NewChartResponse(view.Chart, view.Series),
		Rows:   rows,
		Total:  len(rows),
		Window: ReportWindowResponse{Start: view.Window.Start, End: view.Window.End},
		Notice: notice,
	}
}
