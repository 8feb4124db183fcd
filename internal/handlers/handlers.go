package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bizsaver/internal/catalog"
	"bizsaver/internal/config"
	"bizsaver/internal/engine"
	"bizsaver/internal/extractor"
	"bizsaver/internal/logger"
	"bizsaver/internal/models"
	"bizsaver/internal/monitor"
	sentryutil "bizsaver/internal/sentry"
	"bizsaver/internal/store"
)

var startTime = time.Now()

// API bundles the dependencies shared by the HTTP handlers.
type API struct {
	Store     *store.Store
	Extractor *extractor.Extractor // nil when GEMINI_API_KEY is missing
	Catalog   *catalog.Catalog
	Monitor   *monitor.Runner
}

type analyzeResponse struct {
	Profile     models.CurrentCostProfile     `json:"profile"`
	Suggestions []models.SuggestedAlternative `json:"suggestions"`
	AnalysisID  int64                         `json:"analysis_id,omitempty"`
}

// AnalyzeHandler serves POST /api/analyze: multipart upload of a PDF or
// image, extraction via Gemini, suggestions against the catalog.
func (a *API) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.Extractor == nil {
		http.Error(w, "Analisi documenti non disponibile: servizio AI non configurato", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadBytes); err != nil {
		http.Error(w, "File troppo grande (max 5MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File non trovato", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "analyze", "phase": "read"})
		http.Error(w, "Errore lettura file", http.StatusInternalServerError)
		return
	}

	mime := http.DetectContentType(data)
	var profile models.CurrentCostProfile
	switch {
	case mime == "application/pdf":
		profile, err = a.Extractor.AnalyzePDF(r.Context(), data)
	case strings.HasPrefix(mime, "image/"):
		profile, err = a.Extractor.AnalyzeImage(r.Context(), data, mime)
	default:
		http.Error(w, "Formato non valido: solo PDF o immagini accettati", http.StatusBadRequest)
		return
	}
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "analyze", "phase": "extract"})
		http.Error(w, "Impossibile analizzare il documento: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	IncrementCounter()

	filename := ""
	if header != nil {
		filename = header.Filename
	}
	if filename != "" {
		if profile.Dettagli == nil {
			profile.Dettagli = map[string]interface{}{}
		}
		profile.Dettagli["filename_originale"] = filename
	}

	suggestions := engine.Suggest(a.Catalog, engine.SuggestInput{
		Categoria:           profile.Categoria,
		SpesaMensileAttuale: profile.SpesaMensileAttuale,
		TipoDocumento:       profile.TipoDocumento,
	})
	engine.MarkBest(suggestions)

	resp := analyzeResponse{Profile: profile, Suggestions: suggestions}

	// Persistence is best-effort: the user still gets the result.
	id, err := a.Store.Insert(&models.Analysis{
		Categoria:             profile.Categoria,
		TipoDocumento:         profile.TipoDocumento,
		FornitoreAttuale:      profile.FornitoreAttuale,
		SpesaMensileAttuale:   profile.SpesaMensileAttuale,
		SpesaAnnuaAttuale:     profile.SpesaAnnuaAttuale,
		MigliorRisparmioAnnuo: engine.BestAnnualSaving(suggestions),
		Alternatives:          suggestions,
		Filename:              filename,
	})
	if err != nil {
		logger.Error("salvataggio analisi fallito", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"handler": "analyze", "phase": "store"})
	} else {
		resp.AnalysisID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

type suggestRequest struct {
	Categoria           string      `json:"categoria"`
	SpesaMensileAttuale interface{} `json:"spesa_mensile_attuale"`
	TipoDocumento       string      `json:"tipo_documento"`
}

// SuggestHandler serves POST /api/suggest: suggestions for a profile the
// caller already knows, no document needed.
func (a *API) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Categoria) == "" {
		http.Error(w, "Campo 'categoria' obbligatorio", http.StatusBadRequest)
		return
	}
	spesa, ok := asSpesa(req.SpesaMensileAttuale)
	if !ok {
		http.Error(w, "Campo 'spesa_mensile_attuale' deve essere un numero", http.StatusBadRequest)
		return
	}

	suggestions := engine.Suggest(a.Catalog, engine.SuggestInput{
		Categoria:           engine.NormalizeCategoria(req.Categoria),
		SpesaMensileAttuale: spesa,
		TipoDocumento:       req.TipoDocumento,
	})
	engine.MarkBest(suggestions)

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// MonitorHandler serves POST /api/monitor: one synchronous monitor pass.
func (a *API) MonitorHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, err := a.Monitor.Run(r.Context())
	if err != nil {
		http.Error(w, "Monitoraggio fallito: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnalysesHandler routes /api/analyses (GET list) and /api/analyses/{id}
// (DELETE).
func (a *API) AnalysesHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/analyses"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		list, err := a.Store.List(limit)
		if err != nil {
			sentryutil.CaptureError(err, map[string]string{"handler": "analyses", "phase": "list"})
			http.Error(w, "Errore lettura analisi", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []models.Analysis{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": list, "count": len(list)})

	case r.Method == http.MethodDelete && rest != "":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "ID analisi non valido", http.StatusBadRequest)
			return
		}
		if err := a.Store.Delete(id); err != nil {
			sentryutil.CaptureError(err, map[string]string{"handler": "analyses", "phase": "delete"})
			http.Error(w, "Errore eliminazione analisi", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HealthHandler serves GET /api/health.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	dbState := "ok"
	if _, err := a.Store.List(1); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			dbState = "error"
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"uptime":       time.Since(startTime).Round(time.Second).String(),
		"catalog_size": a.Catalog.Len(),
		"database":     dbState,
		"ai_enabled":   a.Extractor != nil,
		"analisi":      GetCounter(),
	})
}

func asSpesa(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(n), ",", ".", 1), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	// No caching - data is ephemeral
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
