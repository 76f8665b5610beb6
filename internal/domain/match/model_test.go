package match

import "testing"

func TestFormatFromSeriesType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code int
		want SeriesFormat
	}{
		{code: 0, want: FormatBo1},
		{code: 1, want: FormatBo3},
		{code: 2, want: FormatBo5},
		{code: 9, want: FormatBo1},
		{code: -1, want: FormatBo1},
	}
	for _, tc := range cases {
		if got := FormatFromSeriesType(tc.code); got != tc.want {
			t.Fatalf("FormatFromSeriesType(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestSeriesFormatBestOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format SeriesFormat
		want   int
	}{
		{format: FormatBo1, want: 1},
		{format: FormatBo2, want: 2},
		{format: FormatBo3, want: 3},
		{format: FormatBo5, want: 5},
		{format: SeriesFormat("bo9"), want: 1},
	}
	for _, tc := range cases {
		if got := tc.format.BestOf(); got != tc.want {
			t.Fatalf("%q.BestOf() = %d, want %d", tc.format, got, tc.want)
		}
	}
}
