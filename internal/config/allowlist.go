package config

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeAddressList trims and deduplicates address entries. Entries are
// kept in their textual form: "127.0.0.1" and "::ffff:127.0.0.1" are distinct
// members and both have to be listed to admit either notation.
func NormalizeAddressList(entries []string) []string {
	unique := make(map[string]struct{}, len(entries))
	normalized := make([]string, 0, len(entries))

	for _, raw := range entries {
		addr := strings.TrimSpace(raw)
		if addr == "" {
			continue
		}
		if _, exists := unique[addr]; exists {
			continue
		}
		unique[addr] = struct{}{}
		normalized = append(normalized, addr)
	}

	return normalized
}

// ParseIDList converts identifier entries to integers, dropping blanks and
// duplicates.
func ParseIDList(entries []string) ([]uint64, error) {
	unique := make(map[uint64]struct{}, len(entries))
	ids := make([]uint64, 0, len(entries))

	for _, raw := range entries {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid allowlisted id %q: %w", trimmed, err)
		}
		if _, exists := unique[id]; exists {
			continue
		}
		unique[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
