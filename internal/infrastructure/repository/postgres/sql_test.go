package postgres

import (
	"database/sql"
	"testing"

	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
)

func TestNullInt64RoundTrip(t *testing.T) {
	t.Parallel()

	if got := nullInt64(nil); got.Valid {
		t.Fatalf("expected invalid null for nil pointer, got %+v", got)
	}
	value := int64(42)
	if got := nullInt64(&value); !got.Valid || got.Int64 != 42 {
		t.Fatalf("expected valid 42, got %+v", got)
	}
	if got := int64Ptr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil pointer for invalid null, got %v", *got)
	}
	if got := int64Ptr(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Fatalf("expected pointer to 7, got %v", got)
	}
}

func TestMatchResultsEncodeDecode(t *testing.T) {
	t.Parallel()

	raw, err := encodeMatchResults(scoring.MatchResult{
		321580662: scoring.Breakdown{scoring.StatKills: 10, scoring.TotalKey: 10},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected encoded payload")
	}

	row := matchTableModel{ID: 1, Results: raw}
	item, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := item.Results[321580662].Total(); got != 10 {
		t.Fatalf("expected total 10 after round trip, got %v", got)
	}

	unrated, err := encodeMatchResults(nil)
	if err != nil || unrated != nil {
		t.Fatalf("expected nil payload for an unrated match, got %v err=%v", unrated, err)
	}

	rated, err := encodeMatchResults(scoring.MatchResult{})
	if err != nil {
		t.Fatalf("encode empty results failed: %v", err)
	}
	if string(rated) != "{}" {
		t.Fatalf("expected empty object for a rated match without players, got %q", rated)
	}
}
