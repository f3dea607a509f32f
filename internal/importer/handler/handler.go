// HTTP handlers for the import endpoints. Kept next to the importer they
// drive, in the shape the router expects: closures over their dependencies.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"medinv-service/internal/importer"
	"medinv-service/internal/middleware"
	"medinv-service/internal/storage"
)

// Upload returns the multipart upload handler for one import kind.
func Upload(imp *importer.Importer, logger zerolog.Logger, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		defer r.Body.Close()
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		var res importer.Result
		switch kind {
		case "usage":
			res = imp.ImportUsage(raw, header.Filename)
		default:
			res = imp.ImportInventory(raw, header.Filename)
		}

		status := http.StatusOK
		if !res.Success {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)

		log.Info().
			Str("kind", kind).
			Str("file", header.Filename).
			Bool("success", res.Success).
			Dur("elapsed", time.Since(start)).
			Msg("import upload")
	}
}

// History returns recent import attempts.
func History(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		recs, err := st.ImportHistory(limit)
		if err != nil {
			logger.Error().Err(err).Msg("import history")
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"imports": recs})
	}
}

// Status returns one import attempt by id.
func Status(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := st.GetImport(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "import not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error().Err(err).Str("import_id", id).Msg("import status")
			http.Error(w, "failed to load import", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// Inventory lists the current inventory.
func Inventory(st *storage.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.ListInventory()
		if err != nil {
			logger.Error().Err(err).Msg("list inventory")
			http.Error(w, "failed to load inventory", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
