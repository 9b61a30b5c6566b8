package plants

import "strings"

// Search filtra en memoria por nombre, nombre botánico o familia (case-insensitive).
// Query vacía devuelve la lista completa.
func Search(items []Plant, query string) []Plant {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Plant, 0, len(items))
	for _, p := range items {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Plant, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if p.BotanicalName != nil && strings.Contains(strings.ToLower(*p.BotanicalName), q) {
		return true
	}
	return p.Family != nil && strings.Contains(strings.ToLower(*p.Family), q)
}
