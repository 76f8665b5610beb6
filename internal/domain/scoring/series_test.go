package scoring

import "testing"

func TestSeriesContribution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		bestOf  int
		results []float64
		want    float64
	}{
		{name: "bo3 full length scales to two games", bestOf: 3, results: []float64{10, 10, 10}, want: 20},
		{name: "bo3 sweep uses raw sum", bestOf: 3, results: []float64{10, 12}, want: 22},
		{name: "bo5 sweep scales to three games", bestOf: 5, results: []float64{5, 5}, want: 15},
		{name: "bo5 single game scales to three games", bestOf: 5, results: []float64{10}, want: 30},
		{name: "bo5 four games uses raw sum", bestOf: 5, results: []float64{2, 2, 2, 2}, want: 8},
		{name: "bo5 five games uses raw sum", bestOf: 5, results: []float64{2, 2, 2, 2, 2}, want: 10},
		{name: "bo1 uses raw sum", bestOf: 1, results: []float64{13.5}, want: 13.5},
		{name: "bo2 uses raw sum", bestOf: 2, results: []float64{4, 6}, want: 10},
		{name: "no games played", bestOf: 3, results: nil, want: 0},
		{name: "negative results survive scaling", bestOf: 5, results: []float64{-3, -3, -3}, want: -9},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SeriesContribution(tc.bestOf, tc.results)
			if got != tc.want {
				t.Fatalf("SeriesContribution(%d, %v) = %v, want %v", tc.bestOf, tc.results, got, tc.want)
			}
		})
	}
}
