package discord

import (
	"encoding/json"
	"os"
	"path/filepath"
)

func commandHashPath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

// loadCommandHashes reads the per-guild hash cache; a missing or corrupt
// file yields an empty map and a full re-sync.
func loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(commandHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func saveCommandHashes(guildID string, hashes map[string]string) {
	path := commandHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}
