package domain

import (
	"errors"
	"testing"
)

func TestMovieValidate(t *testing.T) {
	valid := Movie{Title: "Heat", Genre: "Crime", DurationMin: 170, ReleaseYear: 1995, Rating: RatingR}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid movie rejected: %v", err)
	}

	cases := map[string]Movie{
		"missing title":    {Genre: "Crime", DurationMin: 170, ReleaseYear: 1995, Rating: RatingR},
		"zero duration":    {Title: "Heat", DurationMin: 0, ReleaseYear: 1995, Rating: RatingR},
		"year too early":   {Title: "Heat", DurationMin: 170, ReleaseYear: 1899, Rating: RatingR},
		"year too late":    {Title: "Heat", DurationMin: 170, ReleaseYear: 2101, Rating: RatingR},
		"unknown rating":   {Title: "Heat", DurationMin: 170, ReleaseYear: 1995, Rating: "PG-14"},
		"lowercase rating": {Title: "Heat", DurationMin: 170, ReleaseYear: 1995, Rating: "r"},
		"empty rating":     {Title: "Heat", DurationMin: 170, ReleaseYear: 1995},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			if err := m.Validate(); !errors.Is(err, ErrInvalidMovie) {
				t.Fatalf("got %v, want ErrInvalidMovie", err)
			}
		})
	}
}

func TestRatingValid(t *testing.T) {
	for _, r := range []Rating{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17} {
		if !r.Valid() {
			t.Errorf("%s reported invalid", r)
		}
	}
	for _, r := range []Rating{"", "X", "pg-13"} {
		if r.Valid() {
			t.Errorf("%q reported valid", r)
		}
	}
}
