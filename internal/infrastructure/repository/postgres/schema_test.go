package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var createTableRegex = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\);`)

func loadSchemaTables(t *testing.T) map[string]string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("..", "..", "..", "..", "db", "migrations", "*.up.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files found")
	}

	tables := make(map[string]string)
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		for _, m := range createTableRegex.FindAllStringSubmatch(string(raw), -1) {
			tables[m[1]] = m[2]
		}
	}
	return tables
}

func schemaColumns(body string) map[string]string {
	cols := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		if line == "" {
			continue
		}
		name := strings.Fields(line)[0]
		switch strings.ToUpper(name) {
		case "UNIQUE", "PRIMARY", "FOREIGN", "CONSTRAINT", "CHECK":
			continue
		}
		cols[name] = line
	}
	return cols
}

func splitColumnList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// Every column a repository selects or inserts has to exist in the shipped
// schema, otherwise postgres mode fails on the first query.
func TestMigrations_CoverRepositoryColumns(t *testing.T) {
	tables := loadSchemaTables(t)

	cases := []struct {
		table   string
		columns string
	}{
		{"competitions", competitionColumns},
		{"tours", tourColumns},
		{"series", seriesColumns},
		{"matches", matchColumns},
		{"teams", `id, external_id, name, created_at`},
		{"players", playerColumns},
		{"player_match_results", `player_id, match_id, result, created_at, updated_at`},
		{"fantasy_teams", fantasyTeamColumns},
		{"fantasy_team_tours", `id, team_id, tour_id, result`},
		{"fantasy_player_slots", `id, team_tour_id, player_id, result`},
	}

	for _, tc := range cases {
		body, ok := tables[tc.table]
		if !ok {
			t.Fatalf("table %s missing from migrations", tc.table)
		}
		cols := schemaColumns(body)
		for _, col := range splitColumnList(tc.columns) {
			if _, ok := cols[col]; !ok {
				t.Fatalf("table %s: column %s used by repository but absent from schema", tc.table, col)
			}
		}
	}
}

func TestMigrations_TourEditingWindowNotNull(t *testing.T) {
	cols := schemaColumns(loadSchemaTables(t)["tours"])

	for _, col := range []string{"editing_start_at", "editing_end_at"} {
		line, ok := cols[col]
		if !ok {
			t.Fatalf("tours schema missing %s", col)
		}
		if !strings.Contains(line, "NOT NULL") {
			t.Fatalf("tours.%s must be NOT NULL, got %q", col, line)
		}
	}
}

func TestMigrations_FantasyTeamUniquePerUserAndCompetition(t *testing.T) {
	body := loadSchemaTables(t)["fantasy_teams"]

	if !strings.Contains(body, "UNIQUE (user_id, competition_id)") {
		t.Fatal("fantasy_teams schema missing UNIQUE (user_id, competition_id)")
	}
}

func TestMigrations_CompetitionStatusDefault(t *testing.T) {
	cols := schemaColumns(loadSchemaTables(t)["competitions"])

	if line := cols["status"]; !strings.Contains(line, "DEFAULT 'NOT_STARTED'") {
		t.Fatalf("competitions.status must default to NOT_STARTED, got %q", line)
	}
}
