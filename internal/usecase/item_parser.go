package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aislemap/backend/internal/domain"
)

// leadingQuantityPattern matches "<integer><whitespace><name>", e.g. "2 coca-cola" or "12  eggs"
var leadingQuantityPattern = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// ParseItem splits a raw shopping-list line into an optional quantity and a clean name.
// Only positive integers count as a quantity; "0 eggs" keeps its full text as the name.
func ParseItem(raw string) domain.ParsedItem {
	trimmed := strings.TrimSpace(raw)
	parsed := domain.ParsedItem{Raw: raw, CleanName: trimmed}

	m := leadingQuantityPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return parsed
	}

	qty, err := strconv.Atoi(m[1])
	if err != nil || qty <= 0 {
		return parsed
	}

	parsed.Quantity = &qty
	parsed.CleanName = strings.TrimSpace(m[2])
	return parsed
}

// ParseItems parses every raw line in order
func ParseItems(raw []string) []domain.ParsedItem {
	items := make([]domain.ParsedItem, len(raw))
	for i, r := range raw {
		items[i] = ParseItem(r)
	}
	return items
}

// QuantityNote prefixes note with the item count ("1 case - ", "3 cases - ").
func QuantityNote(quantity *int, note string) string {
	if quantity == nil {
		return note
	}
	if *quantity == 1 {
		return "1 case - " + note
	}
	return fmt.Sprintf("%d cases - %s", *quantity, note)
}
