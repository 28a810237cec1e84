package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/validation"
	"github.com/4ka0/simple-inventory/internal/view"
)

type StockHandler struct {
	db *gorm.DB
}

func NewStockHandler(db *gorm.DB) *StockHandler {
	return &StockHandler{db: db}
}

func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	var fruits []models.Fruit
	h.db.Order("updated_at DESC").Find(&fruits)

	view.Render(w, r, "stock/index.html", map[string]any{
		"Fruits": fruits,
	})
}

func (h *StockHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "stock/new.html", map[string]any{
		"Name":  "",
		"Price": "",
	})
}

func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Names are normalized to lowercase; the stats page re-capitalizes
	// them for display.
	name := strings.ToLower(strings.TrimSpace(r.FormValue("name")))
	priceStr := strings.TrimSpace(r.FormValue("price"))

	v := make(validation.Violations)
	validation.Required("name", name, v)
	validation.MaxLength("name", name, 100, v)
	validation.Required("price", priceStr, v)
	var price int64
	if v["price"] == "" {
		price = validation.Amount("price", priceStr, v)
	}

	if !v.Empty() {
		view.Render(w, r, "stock/new.html", map[string]any{
			"Name":   name,
			"Price":  priceStr,
			"Errors": v,
		})
		return
	}

	fruit := models.Fruit{Name: name, Price: price}
	if err := h.db.Create(&fruit).Error; err != nil {
		if isUniqueViolation(err) {
			v["name"] = "This name has already been registered."
		} else {
			v["name"] = "Failed to save the item."
		}
		view.Render(w, r, "stock/new.html", map[string]any{
			"Name":   name,
			"Price":  priceStr,
			"Errors": v,
		})
		return
	}

	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

func (h *StockHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fruit models.Fruit
	if err := h.db.First(&fruit, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	view.Render(w, r, "stock/edit.html", map[string]any{
		"Fruit": fruit,
	})
}

func (h *StockHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fruit models.Fruit
	if err := h.db.First(&fruit, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	name := strings.ToLower(strings.TrimSpace(r.FormValue("name")))
	priceStr := strings.TrimSpace(r.FormValue("price"))

	v := make(validation.Violations)
	validation.Required("name", name, v)
	validation.MaxLength("name", name, 100, v)
	validation.Required("price", priceStr, v)
	var price int64
	if v["price"] == "" {
		price = validation.Amount("price", priceStr, v)
	}

	if !v.Empty() {
		view.Render(w, r, "stock/edit.html", map[string]any{
			"Fruit":  fruit,
			"Errors": v,
		})
		return
	}

	fruit.Name = name
	fruit.Price = price
	if err := h.db.Save(&fruit).Error; err != nil {
		if isUniqueViolation(err) {
			v["name"] = "This name has already been registered."
		} else {
			v["name"] = "Failed to save the item."
		}
		view.Render(w, r, "stock/edit.html", map[string]any{
			"Fruit":  fruit,
			"Errors": v,
		})
		return
	}

	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

// Delete removes a fruit without cascading to its historical sales: their
// fruit reference is nulled while the name/price snapshots stay in place.
func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sale{}).Where("fruit_id = ?", id).Update("fruit_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Fruit{}, "id = ?", id).Error
	})
	if err != nil {
		http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/stock", http.StatusSeeOther)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
