package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/4ka0/simple-inventory/internal/ingest"
	"github.com/4ka0/simple-inventory/internal/models"
	"github.com/4ka0/simple-inventory/internal/validation"
	"github.com/4ka0/simple-inventory/internal/view"
)

const maxUploadBytes = 10 << 20

type UploadHandler struct {
	db       *gorm.DB
	mediaDir string
	pipeline *ingest.Pipeline
}

func NewUploadHandler(db *gorm.DB, mediaDir string) *UploadHandler {
	return &UploadHandler{db: db, mediaDir: mediaDir, pipeline: ingest.New(db)}
}

// Pipeline exposes the ingest pipeline so its clock can be pinned in tests.
func (h *UploadHandler) Pipeline() *ingest.Pipeline { return h.pipeline }

func (h *UploadHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "sales/upload.html", nil)
}

// Upload stages the posted CSV on disk, ingests its rows, then removes the
// staging file and record no matter how many rows were accepted.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderError(w, r, "Please select a CSV file.")
		return
	}

	file, header, err := r.FormFile("file_name")
	if err != nil {
		h.renderError(w, r, "Please select a CSV file.")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		h.renderError(w, r, `Please select a file having a ".csv" file extension.`)
		return
	}
	if header.Size == 0 {
		h.renderError(w, r, "The selected file is empty.")
		return
	}

	staged, err := h.stage(file, header.Filename)
	if err != nil {
		h.renderError(w, r, "Failed to store the uploaded file.")
		return
	}

	rows := readRows(filepath.Join(h.mediaDir, staged.FileName))
	report := h.pipeline.Run(rows)

	// Staging cleanup happens regardless of the ingest outcome.
	os.Remove(filepath.Join(h.mediaDir, staged.FileName))
	h.db.Delete(&models.CsvUploadFile{}, staged.ID)

	target := "/sales"
	if n := report.SkippedCount(); n > 0 {
		target += "?skipped=" + strconv.Itoa(n)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// stage writes the upload under the media dir and records it.
func (h *UploadHandler) stage(src io.Reader, original string) (*models.CsvUploadFile, error) {
	rel := filepath.Join("csv_files",
		fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(original)))
	abs := filepath.Join(h.mediaDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, err
	}

	dst, err := os.Create(abs)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(abs)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(abs)
		return nil, err
	}

	staged := &models.CsvUploadFile{FileName: rel}
	if err := h.db.Create(staged).Error; err != nil {
		os.Remove(abs)
		return nil, err
	}
	return staged, nil
}

// readRows parses the staged file as comma-separated rows, no header
// skipping. Per-line parse errors drop that line and continue; field-count
// enforcement is left to the pipeline so short rows reach its validator.
func readRows(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *UploadHandler) renderError(w http.ResponseWriter, r *http.Request, msg string) {
	v := validation.Violations{"file_name": msg}
	view.Render(w, r, "sales/upload.html", map[string]any{"Errors": v})
}
