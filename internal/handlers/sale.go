package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/tz"
	"github.com/4ka0/simple-inventory/internal/validation"
	"github.com/4ka0/simple-inventory/internal/view"
)

type SaleHandler struct {
	db *gorm.DB

	// Now is the clock for future-date rejection. Tests pin it.
	Now func() time.Time
}

func NewSaleHandler(db *gorm.DB) *SaleHandler {
	return &SaleHandler{db: db, Now: time.Now}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	var sales []models.Sale
	h.db.Order("sold_on DESC").Find(&sales)

	data := map[string]any{"Sales": sales}
	if skipped := r.URL.Query().Get("skipped"); skipped != "" {
		if n, err := strconv.Atoi(skipped); err == nil && n > 0 {
			data["SkippedRows"] = n
		}
	}
	view.Render(w, r, "sales/index.html", data)
}

func (h *SaleHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "sales/new.html", map[string]any{
		"Fruits":   h.fruitChoices(),
		"Selected": "",
		"Quantity": "",
		"SoldOn":   "",
	})
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	fruitStr := strings.TrimSpace(r.FormValue("fruit"))
	quantityStr := strings.TrimSpace(r.FormValue("quantity"))
	soldOnStr := strings.TrimSpace(r.FormValue("sold_on"))

	v := make(validation.Violations)

	var fruit models.Fruit
	if fruitStr == "" {
		v["fruit"] = "Please select one item from the dropdown list."
	} else if err := h.db.First(&fruit, "id = ?", fruitStr).Error; err != nil {
		v["fruit"] = "Please select a valid item."
	}

	validation.Required("quantity", quantityStr, v)
	var quantity int64
	if v["quantity"] == "" {
		quantity = validation.Amount("quantity", quantityStr, v)
	}

	validation.Required("sold_on", soldOnStr, v)
	var soldOn time.Time
	if v["sold_on"] == "" {
		soldOn = validation.DateTime("sold_on", soldOnStr, v)
	}
	if v["sold_on"] == "" {
		validation.NotFuture("sold_on", soldOn, h.Now(), v)
	}

	if !v.Empty() {
		view.Render(w, r, "sales/new.html", map[string]any{
			"Fruits":   h.fruitChoices(),
			"Selected": fruitStr,
			"Quantity": quantityStr,
			"SoldOn":   soldOnStr,
			"Errors":   v,
		})
		return
	}

	sale := models.Sale{
		FruitID:  &fruit.ID,
		Fruit:    &fruit,
		Quantity: quantity,
		SoldOn:   soldOn.UTC(),
	}
	sale.RetrieveFruitPrice()
	sale.CalculateProceeds()

	// An identical sale is silently not saved; the redirect happens anyway.
	var count int64
	h.db.Model(&models.Sale{}).
		Where("fruit_id = ? AND quantity = ? AND proceeds = ? AND sold_on = ?",
			fruit.ID, sale.Quantity, sale.Proceeds, sale.SoldOn).
		Count(&count)
	if count == 0 {
		h.db.Create(&sale)
	}

	http.Redirect(w, r, "/sales", http.StatusSeeOther)
}

func (h *SaleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sale models.Sale
	if err := h.db.First(&sale, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	view.Render(w, r, "sales/edit.html", map[string]any{
		"Sale":   sale,
		"SoldOn": sale.SoldOn.In(tz.JST).Format(validation.DateTimeFormat),
	})
}

// Update edits quantity and sale date only. Proceeds are recomputed from
// the snapshot price taken at creation, never from the catalog's current
// price.
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sale models.Sale
	if err := h.db.First(&sale, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	quantityStr := strings.TrimSpace(r.FormValue("quantity"))
	soldOnStr := strings.TrimSpace(r.FormValue("sold_on"))

	v := make(validation.Violations)
	validation.Required("quantity", quantityStr, v)
	var quantity int64
	if v["quantity"] == "" {
		quantity = validation.Amount("quantity", quantityStr, v)
	}
	validation.Required("sold_on", soldOnStr, v)
	var soldOn time.Time
	if v["sold_on"] == "" {
		soldOn = validation.DateTime("sold_on", soldOnStr, v)
	}
	if v["sold_on"] == "" {
		validation.NotFuture("sold_on", soldOn, h.Now(), v)
	}

	if !v.Empty() {
		view.Render(w, r, "sales/edit.html", map[string]any{
			"Sale":   sale,
			"SoldOn": soldOnStr,
			"Errors": v,
		})
		return
	}

	sale.Quantity = quantity
	sale.SoldOn = soldOn.UTC()
	sale.CalculateProceeds()

	if err := h.db.Save(&sale).Error; err != nil {
		v["sold_on"] = "Failed to save the sale."
		view.Render(w, r, "sales/edit.html", map[string]any{
			"Sale":   sale,
			"SoldOn": soldOnStr,
			"Errors": v,
		})
		return
	}

	http.Redirect(w, r, "/sales", http.StatusSeeOther)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.db.Delete(&models.Sale{}, "id = ?", id).Error; err != nil {
		http.Error(w, "Failed to delete sale", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sales", http.StatusSeeOther)
}

func (h *SaleHandler) fruitChoices() []models.Fruit {
	var fruits []models.Fruit
	h.db.Order("name").Find(&fruits)
	return fruits
}
