package chart

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/verte-zerg/maildash/internal/model"
)

func TestFolderPie(t *testing.T) {
	fig := FolderPie([]model.FolderCount{{Folder: "Inbox", Count: 2}, {Folder: "Spam", Count: 1}})
	if fig.Kind != KindPie || fig.ID != FolderChartID {
		t.Fatalf("unexpected figure header: %+v", fig)
	}
	if !reflect.DeepEqual(fig.Labels, []string{"Inbox", "Spam"}) {
		t.Fatalf("unexpected labels: %v", fig.Labels)
	}
	if !reflect.DeepEqual(fig.Values, []float64{2, 1}) {
		t.Fatalf("unexpected values: %v", fig.Values)
	}
}

func TestTopEmailsBarColumns(t *testing.T) {
	fig := TopEmailsBar([]model.EmailRecord{
		{Subject: "B", Sender: "y", Folder: "Spam", Score: 9},
		{Subject: "C", Sender: "z", Folder: "Inbox", Score: 9},
	})
	if !reflect.DeepEqual(fig.X, []float64{9, 9}) {
		t.Fatalf("unexpected x: %v", fig.X)
	}
	if !reflect.DeepEqual(fig.Y, []string{"B", "C"}) {
		t.Fatalf("unexpected y: %v", fig.Y)
	}
	if !reflect.DeepEqual(fig.Color, []string{"Spam", "Inbox"}) {
		t.Fatalf("unexpected color: %v", fig.Color)
	}
}

func TestEmptyFigures(t *testing.T) {
	figs := []Figure{FolderPie(nil), ScoreHistogram(nil, nil, 10), TopEmailsBar(nil)}
	for _, fig := range figs {
		if !fig.Empty() {
			t.Fatalf("expected %s to be empty", fig.ID)
		}
		data, err := json.Marshal(fig)
		if err != nil {
			t.Fatalf("marshal %s: %v", fig.ID, err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", fig.ID, err)
		}
		if decoded["title"] == "" || decoded["kind"] == "" {
			t.Fatalf("expected title and kind for %s: %s", fig.ID, data)
		}
	}
}

func TestScoreHistogramCopiesInput(t *testing.T) {
	scores := []float64{1, 2}
	fig := ScoreHistogram(scores, []model.HistogramBin{{Lo: 1, Hi: 2, Count: 2}}, 10)
	scores[0] = 99
	if fig.Values[0] != 1 {
		t.Fatalf("figure shares the caller's slice")
	}
	if fig.NBins != 10 {
		t.Fatalf("unexpected nbins: %d", fig.NBins)
	}
}
