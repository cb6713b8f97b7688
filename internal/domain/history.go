package domain

import "time"

const HistoryLimit = 500

type HistoryRecord struct {
	Rental
	ResolvedAt time.Time
}

func NewHistoryRecord(rental Rental, resolvedAt time.Time) HistoryRecord {
	return HistoryRecord{Rental: rental, ResolvedAt: resolvedAt}
}

// PrependHistory returns a new ledger with record first, truncated to HistoryLimit.
func PrependHistory(records []HistoryRecord, record HistoryRecord) []HistoryRecord {
	size := len(records) + 1
	if size > HistoryLimit {
		size = HistoryLimit
	}

	next := make([]HistoryRecord, 0, size)
	next = append(next, record)
	next = append(next, records[:size-1]...)
	return next
}

// FilterHistory keeps the records for which keep returns true.
func FilterHistory(records []HistoryRecord, keep func(HistoryRecord) bool) []HistoryRecord {
	next := make([]HistoryRecord, 0, len(records))
	for _, record := range records {
		if keep(record) {
			next = append(next, record)
		}
	}
	return next
}
