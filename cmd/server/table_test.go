package main

import (
	"strings"
	"testing"

	"github.com/user/moviesphere/internal/model"
)

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, [][]string{{"x"}}, nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Fatalf("expected cell in output, got %q", out)
	}
	if !strings.HasPrefix(out, "╭") {
		t.Fatalf("expected rounded style, got %q", out)
	}
}

func TestRenderPopular(t *testing.T) {
	items := []*model.RankedMovie{
		{Movie: &model.Movie{ID: 3, Title: "Stalker", AverageRating: 8.5}, LiveAverage: 8.75, RatingCount: 4},
		{Movie: &model.Movie{ID: 1, Title: "Solaris"}, LiveAverage: 7, RatingCount: 1},
	}
	out := renderPopular(items)
	for _, want := range []string{"Stalker", "8.75", "8.50", "Solaris", "7.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "Stalker") > strings.Index(out, "Solaris") {
		t.Errorf("expected ranking order preserved:\n%s", out)
	}
}
