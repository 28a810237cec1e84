// Package stats builds the proceeds tables shown on the statistics page.
//
// Sales are stored in UTC but bucketed against the Japan-local calendar:
// the day table covers today, yesterday and a catch-all third row, the
// month table the current month, the previous month and a catch-all row.
// A filter window (start of today minus two days, start of the current
// month minus two months) bounds which sales enter bucketing at all; the
// third row of each table absorbs anything in the window that the first
// two rows did not claim, so nothing that passed the filter is dropped.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/4ka0/simple-inventory/internal/format"
	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/tz"
)

// BreakdownEntry is the per-fruit subtotal within a row.
type BreakdownEntry struct {
	Name     string
	Proceeds int64
	Quantity int64
}

// Row is one line of a stats table.
type Row struct {
	Date          time.Time // local calendar day, or first of month
	Proceeds      int64
	Sales         []models.Sale
	Breakdown     []BreakdownEntry
	BreakdownText string
}

// TotalProceeds sums proceeds over every sale, not just the table windows.
func TotalProceeds(sales []models.Sale) int64 {
	var total int64
	for _, s := range sales {
		total += s.Proceeds
	}
	return total
}

// Daily buckets sales into three rows: today, yesterday, and everything
// else that survived the two-day filter.
func Daily(sales []models.Sale, now time.Time) []Row {
	local := now.In(tz.JST)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz.JST)
	filtered := filterSince(sales, dayStart.AddDate(0, 0, -2))

	today := dayStart
	yesterday := dayStart.AddDate(0, 0, -1)
	dayBefore := dayStart.AddDate(0, 0, -2)

	rows := []Row{{Date: today}, {Date: yesterday}, {Date: dayBefore}}
	for _, s := range filtered {
		switch localDate(s.SoldOn) {
		case localDate(today):
			rows[0].Sales = append(rows[0].Sales, s)
		case localDate(yesterday):
			rows[1].Sales = append(rows[1].Sales, s)
		default:
			// Catch-all: a sale older than two days that slipped past the
			// filter still lands here rather than being dropped.
			rows[2].Sales = append(rows[2].Sales, s)
		}
	}
	return summarize(rows)
}

// Monthly buckets sales into three rows: current month, previous month,
// and everything else that survived the two-month filter.
func Monthly(sales []models.Sale, now time.Time) []Row {
	local := now.In(tz.JST)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz.JST)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevPrevStart := monthStart.AddDate(0, -2, 0)
	filtered := filterSince(sales, prevPrevStart)

	rows := []Row{{Date: monthStart}, {Date: prevStart}, {Date: prevPrevStart}}
	for _, s := range filtered {
		switch {
		case !s.SoldOn.Before(monthStart):
			rows[0].Sales = append(rows[0].Sales, s)
		case !s.SoldOn.Before(prevStart) && s.SoldOn.Before(monthStart):
			rows[1].Sales = append(rows[1].Sales, s)
		default:
			rows[2].Sales = append(rows[2].Sales, s)
		}
	}
	return summarize(rows)
}

// filterSince keeps sales at or after the start instant.
func filterSince(sales []models.Sale, start time.Time) []models.Sale {
	var out []models.Sale
	for _, s := range sales {
		if !s.SoldOn.Before(start) {
			out = append(out, s)
		}
	}
	return out
}

// localDate formats the Japan-local calendar date, for day equality checks.
func localDate(t time.Time) string {
	return t.In(tz.JST).Format("2006-01-02")
}

// summarize fills proceeds, breakdown and breakdown text for each row.
// Rows without sales are left at zero proceeds with an empty string.
func summarize(rows []Row) []Row {
	for i := range rows {
		if len(rows[i].Sales) == 0 {
			continue
		}
		var total int64
		for _, s := range rows[i].Sales {
			total += s.Proceeds
		}
		rows[i].Proceeds = total
		rows[i].Breakdown = buildBreakdown(rows[i].Sales)
		rows[i].BreakdownText = renderBreakdown(rows[i].Breakdown)
	}
	return rows
}

// buildBreakdown groups a row's sales by fruit name and orders the groups
// descending by the (proceeds, quantity) pair, name ascending on full ties.
func buildBreakdown(sales []models.Sale) []BreakdownEntry {
	byName := map[string]*BreakdownEntry{}
	for _, s := range sales {
		e, ok := byName[s.FruitName]
		if !ok {
			e = &BreakdownEntry{Name: s.FruitName}
			byName[s.FruitName] = e
		}
		e.Proceeds += s.Proceeds
		e.Quantity += s.Quantity
	}
	entries := make([]BreakdownEntry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Proceeds != entries[j].Proceeds {
			return entries[i].Proceeds > entries[j].Proceeds
		}
		if entries[i].Quantity != entries[j].Quantity {
			return entries[i].Quantity > entries[j].Quantity
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// renderBreakdown renders entries as
// "Apple: ¥1,234 (5), Lemon: ¥240 (2)" with no trailing separator.
func renderBreakdown(entries []BreakdownEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts,
			format.Capitalize(e.Name)+": "+format.Yen(e.Proceeds)+
				" ("+format.Comma(e.Quantity)+")")
	}
	return strings.Join(parts, ", ")
}
