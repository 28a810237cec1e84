package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/format"
	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/stats"
	"github.com/4ka0/simple-inventory/internal/view"
)

type StatsHandler struct {
	db *gorm.DB

	// Now is the reference instant for bucketing. Tests pin it.
	Now func() time.Time
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db, Now: time.Now}
}

func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	var sales []models.Sale
	h.db.Find(&sales)

	now := h.Now()
	view.Render(w, r, "stats/index.html", map[string]any{
		"TotalProceeds": format.Yen(stats.TotalProceeds(sales)),
		"DayRows":       stats.Daily(sales, now),
		"MonthRows":     stats.Monthly(sales, now),
	})
}
