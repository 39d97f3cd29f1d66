package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/memory"
)

func (s *Server) registerRoutes(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok"})
	}).Methods("GET")

	router.HandleFunc("/memories/text", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text     string         `json:"text"`
			Metadata map[string]any `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := s.service.AddTextMemory(r.Context(), req.Text, req.Metadata)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"id": id})
	}).Methods("POST")

	router.HandleFunc("/memories/image", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path     string         `json:"path"`
			Metadata map[string]any `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := s.service.AddImageMemory(r.Context(), req.Path, req.Metadata)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"id": id})
	}).Methods("POST")

	router.HandleFunc("/memories/url", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := s.service.AddURLMemory(r.Context(), req.URL)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"id": id})
	}).Methods("POST")

	router.HandleFunc("/memories/pdf", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		id, err := s.service.AddPDFMemory(r.Context(), header.Filename, file, nil)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"id": id})
	}).Methods("POST")

	router.HandleFunc("/memories/feed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL   string `json:"url"`
			Limit int    `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		count, err := s.service.ImportFeed(r.Context(), req.URL, req.Limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"imported": count})
	}).Methods("POST")

	router.HandleFunc("/memories/recent", func(w http.ResponseWriter, r *http.Request) {
		memoryType := r.URL.Query().Get("type")
		if memoryType == "" {
			memoryType = "all"
		}
		limit := queryInt(r, "limit", 10)

		records, err := s.service.ListRecent(r.Context(), memoryType, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"memories": records, "count": len(records)})
	}).Methods("GET")

	router.HandleFunc("/memories/{modality}/{id}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		if err := s.service.DeleteMemory(r.Context(), memory.Modality(vars["modality"]), vars["id"]); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{"deleted": vars["id"]})
	}).Methods("DELETE")

	router.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string `json:"query"`
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
			NResults  int    `json:"n_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.NResults == 0 {
			req.NResults = 5
		}

		var (
			result *memory.SearchResult
			err    error
		)
		if req.StartDate != "" || req.EndDate != "" {
			result, err = s.service.SearchByDate(r.Context(), req.Query, req.StartDate, req.EndDate, req.NResults)
		} else {
			result, err = s.service.SearchMemories(r.Context(), req.Query, req.NResults)
		}
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, result)
	}).Methods("POST")

	router.HandleFunc("/synthesize", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string `json:"query"`
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
			NResults  int    `json:"n_results"`
			Narrative bool   `json:"narrative"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.NResults == 0 {
			req.NResults = 10
		}

		result, err := s.service.Synthesize(r.Context(), req.Query, req.StartDate, req.EndDate, req.NResults)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := map[string]any{
			"query":         result.Query,
			"text_memories": result.TextRecords,
			"image_memories": result.ImageRecords,
			"timeline":      result.Timeline,
			"counts":        result.Counts,
		}
		if req.Narrative && s.narrator != nil {
			narrative, err := s.narrator.Generate(r.Context(), result)
			if err != nil {
				s.logger.Warn("narrative generation failed", "err", err)
			} else {
				resp["narrative"] = narrative
			}
		}

		writeJSON(w, resp)
	}).Methods("POST")

	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.service.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, stats)
	}).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrInvalidDateRange), errors.Is(err, errors.ErrInvalidParams):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrInternal):
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
