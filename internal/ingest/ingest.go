// Package ingest turns uploaded CSV rows into Sale records.
//
// Rows that fail any check are skipped and the pipeline moves on; nothing
// is surfaced to the uploader beyond an aggregate skip count. The reject
// reasons are still recorded per row so callers and tests can see why.
package ingest

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/tz"
	"github.com/4ka0/simple-inventory/internal/validation"
)

// Reason identifies why a row was rejected.
type Reason string

const (
	RejectFieldCount   Reason = "field_count"
	RejectUnknownFruit Reason = "unknown_fruit"
	RejectQuantity     Reason = "bad_quantity"
	RejectProceeds     Reason = "bad_proceeds"
	RejectTimestamp    Reason = "bad_timestamp"
	RejectFuture       Reason = "future_date"
	RejectDuplicate    Reason = "duplicate"
	RejectStore        Reason = "store_error"
)

// Skip records one rejected row.
type Skip struct {
	Row    []string
	Reason Reason
}

// Report summarizes one pipeline run.
type Report struct {
	Created int
	Skipped []Skip
}

// SkippedCount returns the number of rejected rows.
func (r Report) SkippedCount() int { return len(r.Skipped) }

var (
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
)

// Pipeline validates CSV rows and persists the accepted ones.
type Pipeline struct {
	db *gorm.DB

	// Now is the clock used for future-date rejection. Tests pin it.
	Now func() time.Time
}

func New(db *gorm.DB) *Pipeline {
	return &Pipeline{db: db, Now: time.Now}
}

// Run ingests raw CSV rows. Identical raw rows within the same upload are
// collapsed to a single candidate before validation, so a repeated line
// can create at most one sale.
func (p *Pipeline) Run(rows [][]string) Report {
	var report Report
	for _, row := range dedupeRows(rows) {
		sale, reason := p.validate(row)
		if reason != "" {
			report.Skipped = append(report.Skipped, Skip{Row: row, Reason: reason})
			continue
		}
		if err := p.db.Create(sale).Error; err != nil {
			// The unique index backstops the existence check against
			// concurrent inserts; treat a constraint hit as a duplicate.
			reason := RejectStore
			if isUniqueViolation(err) {
				reason = RejectDuplicate
			}
			report.Skipped = append(report.Skipped, Skip{Row: row, Reason: reason})
			continue
		}
		report.Created++
	}
	return report
}

// validate applies the acceptance rules to a single row and, when all of
// them hold, returns the Sale to persist. A non-empty Reason means reject.
func (p *Pipeline) validate(row []string) (*models.Sale, Reason) {
	if len(row) != 4 {
		return nil, RejectFieldCount
	}

	var fruit models.Fruit
	if err := p.db.Where("name = ?", row[0]).First(&fruit).Error; err != nil {
		return nil, RejectUnknownFruit
	}

	if !digitsRe.MatchString(row[1]) {
		return nil, RejectQuantity
	}
	quantity, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil || quantity > models.MaxAmount {
		return nil, RejectQuantity
	}

	if !digitsRe.MatchString(row[2]) {
		return nil, RejectProceeds
	}
	proceeds, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil || proceeds > models.MaxAmount {
		return nil, RejectProceeds
	}

	if !dateTimeRe.MatchString(row[3]) {
		return nil, RejectTimestamp
	}
	soldOn, err := time.ParseInLocation(validation.DateTimeFormat, row[3], tz.JST)
	if err != nil {
		return nil, RejectTimestamp
	}
	if soldOn.After(p.Now()) {
		return nil, RejectFuture
	}

	// Compare against stored timestamps in UTC.
	soldOnUTC := soldOn.UTC()
	var count int64
	p.db.Model(&models.Sale{}).
		Where("fruit_name = ? AND quantity = ? AND proceeds = ? AND sold_on = ?",
			row[0], quantity, proceeds, soldOnUTC).
		Count(&count)
	if count > 0 {
		return nil, RejectDuplicate
	}

	return &models.Sale{
		FruitID:            &fruit.ID,
		FruitName:          fruit.Name,
		Quantity:           quantity,
		FruitPriceWhenSold: float64(proceeds) / float64(quantity),
		Proceeds:           proceeds,
		SoldOn:             soldOnUTC,
	}, ""
}

// dedupeRows drops byte-for-byte repeats, keeping first occurrences in order.
func dedupeRows(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
