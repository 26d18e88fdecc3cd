package extract

import "github.com/rocjay1/statement-sorter/internal/models"

// MergePage combines the table and text results of one page. Table rows
// are kept as-is; a text transaction is added only when its identity has
// not been seen yet on this page. Without table rows all text results are
// kept.
func MergePage(fromTables, fromText []models.Transaction) []models.Transaction {
	if len(fromTables) == 0 {
		return fromText
	}

	seen := make(map[models.TransactionKey]struct{}, len(fromTables)+len(fromText))
	merged := make([]models.Transaction, 0, len(fromTables)+len(fromText))
	for _, t := range fromTables {
		seen[t.Key()] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range fromText {
		key := t.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}
