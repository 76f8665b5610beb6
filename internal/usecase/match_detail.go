package usecase

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// matchDetailPayload is the typed view over the opaque provider detail blob.
// Player entries stay loosely typed so forward-compatible provider fields
// survive a store/decode round trip.
type matchDetailPayload struct {
	RadiantWin *bool            `json:"radiant_win"`
	StartTime  int64            `json:"start_time"`
	Players    []map[string]any `json:"players"`
}

func decodeMatchDetail(raw []byte) (matchDetailPayload, error) {
	var payload matchDetailPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return matchDetailPayload{}, fmt.Errorf("decode match detail payload: %w", err)
	}
	return payload, nil
}

// isDetailComplete checks the payload carries everything the formula needs:
// a winner, at least one player, and every formula stat present on every
// player entry. Presence, not schema validation.
func isDetailComplete(payload matchDetailPayload, requiredStats []string) bool {
	if payload.RadiantWin == nil || len(payload.Players) == 0 {
		return false
	}
	for _, entry := range payload.Players {
		if playerAccountID(entry) <= 0 {
			return false
		}
		if _, ok := entry["player_slot"]; !ok {
			return false
		}
		for _, stat := range requiredStats {
			if _, ok := entry[stat]; !ok {
				return false
			}
		}
	}
	return true
}

func playerAccountID(entry map[string]any) int64 {
	return getInt64(entry, "account_id")
}

// playerIsRadiant follows the provider convention: slots 0-127 are radiant,
// 128-255 are dire.
func playerIsRadiant(entry map[string]any) bool {
	return getInt64(entry, "player_slot") < 128
}

func statValue(entry map[string]any, key string) float64 {
	return getFloat(entry, key)
}

func getInt64(entry map[string]any, key string) int64 {
	switch value := entry[key].(type) {
	case float64:
		return int64(value)
	case int64:
		return value
	case int:
		return int64(value)
	default:
		return 0
	}
}

func getFloat(entry map[string]any, key string) float64 {
	switch value := entry[key].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	default:
		return 0
	}
}
