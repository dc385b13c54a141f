package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aislemap/backend/internal/domain"
)

type promptItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// buildPrompt asks the model to place each numbered item in one aisle.
// Items are numbered from 1; the reply echoes the number as "id".
func buildPrompt(items []domain.ParsedItem) string {
	list := make([]promptItem, len(items))
	for i, item := range items {
		list[i] = promptItem{ID: i + 1, Name: item.CleanName}
	}
	encoded, _ := json.Marshal(list)

	var b strings.Builder
	b.WriteString("You are a grocery store assistant. Assign every item below to exactly one store aisle.\n\n")
	b.WriteString("Aisles:\n")
	for _, aisle := range domain.Aisles {
		fmt.Fprintf(&b, "- %s\n", aisle)
	}
	b.WriteString("\nItems:\n")
	b.Write(encoded)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Return JSON only: an \"items\" array with exactly %d objects, one per item, each with\n", len(items))
	b.WriteString("\"id\" (the item's id), \"product\" (a readable product name), ")
	b.WriteString("\"aisle\" (one aisle from the list, spelled exactly) and ")
	b.WriteString("\"notes\" (the item name exactly as given above).\n")
	fmt.Fprintf(&b, "Use %q when nothing else fits.\n", domain.DefaultAisle)
	return b.String()
}

// parseEntries extracts the first JSON array found in a model response.
// Both a bare array and an {"items": [...]} object are accepted.
func parseEntries(body string) ([]domain.CategorizationEntry, error) {
	start := strings.Index(body, "[")
	end := strings.LastIndex(body, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array in response", domain.ErrParse)
	}

	var entries []domain.CategorizationEntry
	if err := json.Unmarshal([]byte(body[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return entries, nil
}

// matchEntries joins model entries back to the batch. The echoed id is the
// join key; entries without an id are matched by comparing notes with the
// clean name, case-insensitively. Every item must be matched exactly once.
func matchEntries(items []domain.ParsedItem, entries []domain.CategorizationEntry) ([]domain.CategorizedItem, error) {
	results := make([]domain.CategorizedItem, len(items))
	matched := make([]bool, len(items))
	count := 0

	for _, entry := range entries {
		idx := -1
		if entry.ID >= 1 && entry.ID <= len(items) {
			if !matched[entry.ID-1] {
				idx = entry.ID - 1
			}
		} else if entry.ID == 0 {
			idx = matchByNotes(items, matched, entry.Notes)
		}
		if idx < 0 {
			continue
		}

		results[idx] = finalizeEntry(items[idx], entry)
		matched[idx] = true
		count++
	}

	if count != len(items) {
		return nil, fmt.Errorf("%w: matched %d of %d items", domain.ErrCountMismatch, count, len(items))
	}
	return results, nil
}

func matchByNotes(items []domain.ParsedItem, matched []bool, notes string) int {
	notes = strings.TrimSpace(notes)
	for i, item := range items {
		if !matched[i] && strings.EqualFold(item.CleanName, notes) {
			return i
		}
	}
	return -1
}

// finalizeEntry canonicalizes the aisle and applies the quantity annotation.
// An aisle outside the taxonomy is replaced by the keyword-rule answer.
func finalizeEntry(item domain.ParsedItem, entry domain.CategorizationEntry) domain.CategorizedItem {
	product := strings.TrimSpace(entry.Product)
	if product == "" {
		product = item.CleanName
	}

	notes := strings.TrimSpace(entry.Notes)
	if notes == "" {
		notes = item.CleanName
	}

	aisle, ok := domain.CanonicalAisle(entry.Aisle)
	if !ok {
		aisle = ClassifyItem(item.CleanName)
		notes += " (aisle corrected)"
	}

	return domain.CategorizedItem{
		Product: product,
		Aisle:   aisle,
		Notes:   QuantityNote(item.Quantity, notes),
	}
}
