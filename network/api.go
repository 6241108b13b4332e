package network

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parrot/common"
	"parrot/emoji"
	"parrot/storage"
)

type healthResponse struct {
	Status         string `json:"status"`
	Uptime         int    `json:"uptime"`
	CatalogEntries int    `json:"catalogEntries"`
}

type scanResponse struct {
	Text   string        `json:"text"`
	Tokens []emoji.Token `json:"tokens"`
}

type topResponse struct {
	Total int            `json:"total"`
	Top   []common.Usage `json:"top"`
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		srvLog.Errorln("Failed to write response:", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:         "ok",
		Uptime:         int(time.Since(srvStarted).Seconds()),
		CatalogEntries: srvIndex.Catalog().Len(),
	})
}

func scanHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")

	writeJSON(w, scanResponse{
		Text:   text,
		Tokens: emoji.Extract(srvIndex.Catalog(), text),
	})
}

func assetHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !emoji.ValidAssetName(name) {
		http.Error(w, "invalid asset name", http.StatusBadRequest)
		return
	}

	file, err := os.Open(filepath.Join(srvIndex.Dir(), name))
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")

	http.ServeContent(w, r, name, info.ModTime(), file)
}

func topHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if arg := r.URL.Query().Get("n"); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > 100 {
			http.Error(w, "n must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	db, err := storage.OpenDatabase(srvCtx)
	if err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	defer storage.CloseDatabase(db)

	tx := storage.NewTransaction(db)

	writeJSON(w, topResponse{
		Total: tx.UsageTotal(),
		Top:   tx.TopUsage(limit),
	})
}

func buildAPIRouter(router *mux.Router) {
	router.HandleFunc("/health", healthHandler)

	router.HandleFunc("/scan", scanHandler)

	router.HandleFunc("/asset/{name}", assetHandler)

	router.HandleFunc("/stats/top", topHandler)
}
