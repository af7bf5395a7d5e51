// Package fileserver publishes the batch output directory over HTTP in the
// layout the dashboard's HTTP source expects.
package fileserver

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/tabloide-insight/internal/treated"
)

// MonthFiles lists the formats available for one month.
type MonthFiles struct {
	Month   string   `json:"month"`
	Formats []string `json:"formats"`
}

type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/"+treated.PromotionsFileName, h.Promotions).Methods("GET", "HEAD")
	router.HandleFunc("/"+treated.SalesDir+"/{file}", h.Sales).Methods("GET", "HEAD")
	router.HandleFunc("/api/files", h.ListMonths).Methods("GET")
}

func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	h.serve(w, r, treated.PromotionsFileName)
}

// Sales serves a monthly table. Only names produced by the batch are accepted,
// which also keeps requests inside the output directory.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	_, ext, ok := treated.MonthFromFileName(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if ext == treated.ExtCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	}
	h.serve(w, r, name)
}

func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := ListMonths(h.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", h.dir).Msg("list treated files failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(months)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// ListMonths scans dir for treated sales files, sorted by month.
func ListMonths(dir string) ([]MonthFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		month, ext, ok := treated.MonthFromFileName(e.Name())
		if !ok {
			continue
		}
		byMonth[month] = append(byMonth[month], ext)
	}

	months := make([]MonthFiles, 0, len(byMonth))
	for month, formats := range byMonth {
		sort.Strings(formats)
		months = append(months, MonthFiles{Month: month, Formats: formats})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}
