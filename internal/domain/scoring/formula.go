package scoring

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

type Sign string

const (
	SignPlus  Sign = "+"
	SignMinus Sign = "-"
)

// Entry is one formula line: how a single raw stat converts into points for
// each role class.
type Entry struct {
	Sign    Sign    `json:"sign"`
	Core    float64 `json:"core"`
	Support float64 `json:"support"`
}

func (e Entry) coefficient(class player.RoleClass) float64 {
	if class == player.ClassCore {
		return e.Core
	}
	return e.Support
}

// Formula is an ordered mapping from stat name to its scoring entry. Order is
// preserved so breakdowns and required-stat checks stay deterministic.
type Formula struct {
	names   []string
	entries map[string]Entry
}

func NewFormula() Formula {
	return Formula{entries: make(map[string]Entry)}
}

func (f *Formula) Set(name string, entry Entry) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if f.entries == nil {
		f.entries = make(map[string]Entry)
	}
	if _, exists := f.entries[name]; !exists {
		f.names = append(f.names, name)
	}
	f.entries[name] = entry
}

// Stats returns the stat names in insertion order. These are exactly the keys
// a match detail payload must carry per player to be considered complete.
func (f Formula) Stats() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f Formula) Entry(name string) (Entry, bool) {
	entry, ok := f.entries[name]
	return entry, ok
}

func (f Formula) Len() int {
	return len(f.names)
}

func (f Formula) Validate() error {
	if len(f.names) == 0 {
		return fmt.Errorf("formula has no entries")
	}
	for _, name := range f.names {
		entry := f.entries[name]
		if entry.Sign != SignPlus && entry.Sign != SignMinus {
			return fmt.Errorf("formula stat %q has invalid sign %q", name, entry.Sign)
		}
	}
	return nil
}

type formulaDocumentEntry struct {
	Stat    string  `json:"stat"`
	Sign    string  `json:"sign"`
	Core    float64 `json:"core"`
	Support float64 `json:"support"`
}

// ParseFormula decodes an externally supplied formula document. The document
// is an ordered array so operators control entry order without map-key games.
func ParseFormula(raw []byte) (Formula, error) {
	var doc []formulaDocumentEntry
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return Formula{}, fmt.Errorf("decode formula document: %w", err)
	}

	formula := NewFormula()
	for _, item := range doc {
		formula.Set(item.Stat, Entry{
			Sign:    Sign(strings.TrimSpace(item.Sign)),
			Core:    item.Core,
			Support: item.Support,
		})
	}
	if err := formula.Validate(); err != nil {
		return Formula{}, err
	}
	return formula, nil
}

// DefaultFormula is the tuned production table. Operators override it with an
// external document; the engine itself never hardcodes coefficients elsewhere.
func DefaultFormula() Formula {
	formula := NewFormula()
	formula.Set(StatKills, Entry{Sign: SignPlus, Core: 2.5, Support: 3})
	formula.Set(StatDeaths, Entry{Sign: SignMinus, Core: 1.5, Support: 1})
	formula.Set(StatAssists, Entry{Sign: SignPlus, Core: 1, Support: 1.5})
	formula.Set(StatLastHits, Entry{Sign: SignPlus, Core: 0.01, Support: 0.02})
	formula.Set(StatDenies, Entry{Sign: SignPlus, Core: 0.05, Support: 0.05})
	formula.Set(StatGoldPerMin, Entry{Sign: SignPlus, Core: 0.005, Support: 0.01})
	formula.Set(StatXPPerMin, Entry{Sign: SignPlus, Core: 0.005, Support: 0.01})
	formula.Set(StatHeroDamage, Entry{Sign: SignPlus, Core: 0.0002, Support: 0.0004})
	formula.Set(StatTowerDamage, Entry{Sign: SignPlus, Core: 0.0005, Support: 0.001})
	formula.Set(StatStuns, Entry{Sign: SignPlus, Core: 0.05, Support: 0.1})
	formula.Set(StatHeroHealing, Entry{Sign: SignPlus, Core: 0.0005, Support: 0.001})
	return formula
}

const (
	StatKills       = "kills"
	StatDeaths      = "deaths"
	StatAssists     = "assists"
	StatLastHits    = "last_hits"
	StatDenies      = "denies"
	StatGoldPerMin  = "gold_per_min"
	StatXPPerMin    = "xp_per_min"
	StatHeroDamage  = "hero_damage"
	StatTowerDamage = "tower_damage"
	StatStuns       = "stuns"
	StatHeroHealing = "hero_healing"
)
