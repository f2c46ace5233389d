// Package chart builds declarative chart descriptions for the dashboard.
// A Figure carries data only; rendering is left to the web page, the
// terminal report or the TUI.
package chart

import (
	"github.com/verte-zerg/maildash/internal/model"
)

// Kind names the chart type of a figure.
type Kind string

const (
	KindPie       Kind = "pie"
	KindHistogram Kind = "histogram"
	KindBar       Kind = "bar"
)

// Figure placeholders on the dashboard page.
const (
	FolderChartID  = "folder-chart"
	ScoreChartID   = "score-chart"
	LatestEmailsID = "latest-emails"
)

// Figure titles.
const (
	FolderChartTitle  = "Email Distribution by Folder"
	ScoreChartTitle   = "Email Priority Scores"
	LatestEmailsTitle = "Recent Emails Sorted"
)

// Figure is one chart description. Which data fields are set depends on Kind:
// pie uses Labels and Values, histogram uses Values, NBins and Bins, bar
// uses X, Y and Color.
type Figure struct {
	ID     string               `json:"id" yaml:"id"`
	Kind   Kind                 `json:"kind" yaml:"kind"`
	Title  string               `json:"title" yaml:"title"`
	XLabel string               `json:"xLabel,omitempty" yaml:"x_label,omitempty"`
	YLabel string               `json:"yLabel,omitempty" yaml:"y_label,omitempty"`
	Labels []string             `json:"labels,omitempty" yaml:"labels,omitempty"`
	Values []float64            `json:"values,omitempty" yaml:"values,omitempty"`
	NBins  int                  `json:"nbins,omitempty" yaml:"nbins,omitempty"`
	Bins   []model.HistogramBin `json:"bins,omitempty" yaml:"bins,omitempty"`
	X      []float64            `json:"x,omitempty" yaml:"x,omitempty"`
	Y      []string             `json:"y,omitempty" yaml:"y,omitempty"`
	Color  []string             `json:"color,omitempty" yaml:"color,omitempty"`
}

// Empty reports whether the figure has nothing to draw.
func (f Figure) Empty() bool {
	switch f.Kind {
	case KindPie:
		return len(f.Labels) == 0
	case KindHistogram:
		return len(f.Values) == 0
	case KindBar:
		return len(f.Y) == 0
	default:
		return true
	}
}

// FolderPie describes the folder distribution: labels are folders, values
// are counts.
func FolderPie(counts []model.FolderCount) Figure {
	fig := Figure{ID: FolderChartID, Kind: KindPie, Title: FolderChartTitle}
	for _, c := range counts {
		fig.Labels = append(fig.Labels, c.Folder)
		fig.Values = append(fig.Values, float64(c.Count))
	}
	return fig
}

// ScoreHistogram describes the score distribution from the raw scores and
// their computed bins.
func ScoreHistogram(scores []float64, bins []model.HistogramBin, nbins int) Figure {
	fig := Figure{
		ID:     ScoreChartID,
		Kind:   KindHistogram,
		Title:  ScoreChartTitle,
		XLabel: model.ColumnScore,
		YLabel: "count",
		NBins:  nbins,
	}
	if len(scores) > 0 {
		fig.Values = append([]float64(nil), scores...)
	}
	if len(bins) > 0 {
		fig.Bins = append([]model.HistogramBin(nil), bins...)
	}
	return fig
}

// TopEmailsBar describes the highest-scored emails: x is the score, y the
// subject and color the folder.
func TopEmailsBar(records []model.EmailRecord) Figure {
	fig := Figure{
		ID:     LatestEmailsID,
		Kind:   KindBar,
		Title:  LatestEmailsTitle,
		XLabel: model.ColumnScore,
		YLabel: model.ColumnSubject,
	}
	for _, r := range records {
		fig.X = append(fig.X, r.Score)
		fig.Y = append(fig.Y, r.Subject)
		fig.Color = append(fig.Color, r.Folder)
	}
	return fig
}
