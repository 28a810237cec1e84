package stats

import (
	"testing"
	"time"

	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/tz"
)

// jst builds a Japan-local instant, stored the way sales are (UTC).
func jst(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, tz.JST).UTC()
}

func sale(name string, quantity, proceeds int64, soldOn time.Time) models.Sale {
	return models.Sale{FruitName: name, Quantity: quantity, Proceeds: proceeds, SoldOn: soldOn}
}

// fiveFruitDay returns one sale of each fruit (apple ¥100 x1 .. banana ¥180 x5)
// on the given day.
func fiveFruitDay(year int, month time.Month, day int) []models.Sale {
	return []models.Sale{
		sale("apple", 1, 100, jst(year, month, day, 10, 0)),
		sale("lemon", 2, 240, jst(year, month, day, 11, 0)),
		sale("orange", 3, 420, jst(year, month, day, 12, 0)),
		sale("kiwi", 4, 640, jst(year, month, day, 13, 0)),
		sale("banana", 5, 900, jst(year, month, day, 14, 0)),
	}
}

const wantBreakdown = "Banana: ¥900 (5), Kiwi: ¥640 (4), Orange: ¥420 (3), Lemon: ¥240 (2), Apple: ¥100 (1)"

func TestDailyThreeDayScenario(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)

	var sales []models.Sale
	sales = append(sales, fiveFruitDay(2020, time.April, 15)...)
	sales = append(sales, fiveFruitDay(2020, time.April, 16)...)
	sales = append(sales, fiveFruitDay(2020, time.April, 17)...)

	rows := Daily(sales, now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantDates := []string{"2020-04-17", "2020-04-16", "2020-04-15"}
	for i, row := range rows {
		if got := row.Date.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("row %d date = %s, want %s", i, got, wantDates[i])
		}
		if row.Proceeds != 2300 {
			t.Errorf("row %d proceeds = %d, want 2300", i, row.Proceeds)
		}
		if row.BreakdownText != wantBreakdown {
			t.Errorf("row %d breakdown = %q, want %q", i, row.BreakdownText, wantBreakdown)
		}
	}
}

func TestDailyFilterExcludesOlderSales(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)

	sales := []models.Sale{
		sale("apple", 1, 100, jst(2020, time.April, 14, 23, 59)), // before the window
		sale("apple", 1, 100, jst(2020, time.April, 15, 0, 0)),   // exactly at window start
	}

	rows := Daily(sales, now)
	if rows[2].Proceeds != 100 {
		t.Errorf("window-start sale should land in row 3, proceeds = %d", rows[2].Proceeds)
	}
	total := rows[0].Proceeds + rows[1].Proceeds + rows[2].Proceeds
	if total != 100 {
		t.Errorf("older sale should be filtered out, table total = %d", total)
	}
}

func TestDailyBucketsByLocalDate(t *testing.T) {
	// 2020-04-16 23:30 JST is 14:30 UTC the same day; it must bucket as
	// the 16th even though "now" is the 17th.
	now := jst(2020, time.April, 17, 1, 0)
	sales := []models.Sale{sale("apple", 1, 100, jst(2020, time.April, 16, 23, 30))}

	rows := Daily(sales, now)
	if rows[1].Proceeds != 100 {
		t.Errorf("sale should land in yesterday's row, got rows %d/%d/%d",
			rows[0].Proceeds, rows[1].Proceeds, rows[2].Proceeds)
	}
}

func TestMonthlyThreeMonthScenario(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)

	var sales []models.Sale
	sales = append(sales, fiveFruitDay(2020, time.April, 10)...)
	sales = append(sales, fiveFruitDay(2020, time.March, 10)...)
	sales = append(sales, fiveFruitDay(2020, time.February, 10)...)
	// January sale is before the two-month window and must not appear.
	sales = append(sales, sale("apple", 1, 100, jst(2020, time.January, 10, 10, 0)))

	rows := Monthly(sales, now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantDates := []string{"2020-04", "2020-03", "2020-02"}
	for i, row := range rows {
		if got := row.Date.Format("2006-01"); got != wantDates[i] {
			t.Errorf("row %d month = %s, want %s", i, got, wantDates[i])
		}
		if row.Proceeds != 2300 {
			t.Errorf("row %d proceeds = %d, want 2300", i, row.Proceeds)
		}
		if row.BreakdownText != wantBreakdown {
			t.Errorf("row %d breakdown = %q, want %q", i, row.BreakdownText, wantBreakdown)
		}
	}
}

func TestMonthlyBoundaries(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)

	sales := []models.Sale{
		sale("apple", 1, 100, jst(2020, time.April, 1, 0, 0)),  // first instant of current month
		sale("lemon", 1, 120, jst(2020, time.March, 31, 23, 59)), // last minute of previous month
		sale("kiwi", 1, 160, jst(2020, time.February, 1, 0, 0)),  // first instant of the window
	}

	rows := Monthly(sales, now)
	if rows[0].Proceeds != 100 {
		t.Errorf("current month row proceeds = %d, want 100", rows[0].Proceeds)
	}
	if rows[1].Proceeds != 120 {
		t.Errorf("previous month row proceeds = %d, want 120", rows[1].Proceeds)
	}
	if rows[2].Proceeds != 160 {
		t.Errorf("catch-all row proceeds = %d, want 160", rows[2].Proceeds)
	}
}

func TestEmptyRowsRenderEmpty(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)

	for _, rows := range [][]Row{Daily(nil, now), Monthly(nil, now)} {
		for i, row := range rows {
			if row.Proceeds != 0 {
				t.Errorf("row %d proceeds = %d, want 0", i, row.Proceeds)
			}
			if row.BreakdownText != "" {
				t.Errorf("row %d breakdown = %q, want empty", i, row.BreakdownText)
			}
		}
	}
}

func TestBreakdownSortsByProceedsThenQuantity(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)
	day := func(name string, q, p int64) models.Sale {
		return sale(name, q, p, jst(2020, time.April, 17, 10, 0))
	}

	// Equal proceeds: the larger quantity sorts first.
	rows := Daily([]models.Sale{
		day("apple", 2, 500),
		day("lemon", 5, 500),
		day("banana", 1, 900),
	}, now)

	want := "Banana: ¥900 (1), Lemon: ¥500 (5), Apple: ¥500 (2)"
	if rows[0].BreakdownText != want {
		t.Errorf("breakdown = %q, want %q", rows[0].BreakdownText, want)
	}
}

func TestBreakdownGroupsRepeatedFruit(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)
	rows := Daily([]models.Sale{
		sale("apple", 10, 1000, jst(2020, time.April, 17, 9, 0)),
		sale("apple", 3, 300, jst(2020, time.April, 17, 10, 0)),
	}, now)

	if len(rows[0].Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown entry, got %d", len(rows[0].Breakdown))
	}
	e := rows[0].Breakdown[0]
	if e.Proceeds != 1300 || e.Quantity != 13 {
		t.Errorf("entry = %+v, want proceeds 1300 quantity 13", e)
	}
	if rows[0].BreakdownText != "Apple: ¥1,300 (13)" {
		t.Errorf("breakdown = %q", rows[0].BreakdownText)
	}
}

func TestBreakdownUsesThousandsSeparators(t *testing.T) {
	now := jst(2020, time.April, 17, 15, 0)
	rows := Daily([]models.Sale{
		sale("melon", 1234, 1234567, jst(2020, time.April, 17, 9, 0)),
	}, now)

	want := "Melon: ¥1,234,567 (1,234)"
	if rows[0].BreakdownText != want {
		t.Errorf("breakdown = %q, want %q", rows[0].BreakdownText, want)
	}
}

func TestTotalProceedsIgnoresWindows(t *testing.T) {
	sales := []models.Sale{
		sale("apple", 1, 100, jst(2015, time.January, 1, 0, 0)),
		sale("lemon", 1, 120, jst(2020, time.April, 17, 0, 0)),
	}
	if got := TotalProceeds(sales); got != 220 {
		t.Errorf("TotalProceeds = %d, want 220", got)
	}
	if got := TotalProceeds(nil); got != 0 {
		t.Errorf("TotalProceeds(nil) = %d, want 0", got)
	}
}
