package notify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"quakewatch/internal/model"
)

func TestFormatAlert(t *testing.T) {
	ev := model.SeismicEvent{ID: "q1", Magnitude: 6.1, Place: "Test Zone"}

	want := model.Alert{
		Title:   "Significant Quake Detected!",
		Message: "Magnitude 6.1 - Test Zone",
	}
	if diff := cmp.Diff(want, FormatAlert(ev)); diff != "" {
		t.Errorf("alert mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatAlertRoundsMagnitude(t *testing.T) {
	ev := model.SeismicEvent{Magnitude: 5.4499, Place: "Somewhere"}

	got := FormatAlert(ev)
	if diff := cmp.Diff("Magnitude 5.4 - Somewhere", got.Message); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatShareText(t *testing.T) {
	ev := model.SeismicEvent{Magnitude: 6.1, Place: "Test Zone"}

	want := "Earthquake Alert!\nMag: 6.1\nLoc: Test Zone"
	if diff := cmp.Diff(want, FormatShareText(ev)); diff != "" {
		t.Errorf("share text mismatch (-want +got):\n%s", diff)
	}
}
