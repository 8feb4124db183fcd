package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizsaver/internal/catalog"
	"bizsaver/internal/config"
	"bizsaver/internal/extractor"
	"bizsaver/internal/models"
	"bizsaver/internal/monitor"
	"bizsaver/internal/store"

	"google.golang.org/genai"
)

func init() {
	config.Load()
}

type stubGemini struct {
	reply string
}

func (s *stubGemini) GenerateParts(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	return s.reply, nil
}

func testAPI(t *testing.T, ext *extractor.Extractor) *API {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	cat := catalog.New()
	return &API{
		Store:     st,
		Extractor: ext,
		Catalog:   cat,
		Monitor:   monitor.NewRunner(st, cat, nil, 10),
	}
}

func stubExtractor(reply string) *extractor.Extractor {
	return extractor.New(&stubGemini{reply: reply}, "gemini-2.5-flash")
}

// Minimal JPEG header, enough for http.DetectContentType
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("multipart: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestSuggestHandler_Valid(t *testing.T) {
	api := testAPI(t, nil)
	body := `{"categoria":"energia","spesa_mensile_attuale":42.70}`
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	api.SuggestHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Suggestions []map[string]interface{} `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("Con spesa 42.70 in energia dovrebbero esserci alternative")
	}
	if result.Suggestions[0]["is_best"] != true {
		t.Error("La prima alternativa deve essere is_best")
	}
}

func TestSuggestHandler_CategoriaMancante(t *testing.T) {
	api := testAPI(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(`{"spesa_mensile_attuale":42.70}`))
	w := httptest.NewRecorder()
	api.SuggestHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 senza categoria, got %d", w.Code)
	}
}

func TestSuggestHandler_SpesaNonNumerica(t *testing.T) {
	api := testAPI(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(`{"categoria":"energia","spesa_mensile_attuale":"boh"}`))
	w := httptest.NewRecorder()
	api.SuggestHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 con spesa non numerica, got %d", w.Code)
	}
}

func TestSuggestHandler_MethodNotAllowed(t *testing.T) {
	api := testAPI(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/suggest", nil)
	w := httptest.NewRecorder()
	api.SuggestHandler(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", w.Code)
	}
}

func TestAnalyzeHandler_SenzaEstrattore(t *testing.T) {
	api := testAPI(t, nil)
	body, ct := multipartBody(t, "file", "bolletta.jpg", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	api.AnalyzeHandler(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 senza estrattore, got %d", w.Code)
	}
}

func TestAnalyzeHandler_FileMancante(t *testing.T) {
	api := testAPI(t, stubExtractor(`{}`))
	body, ct := multipartBody(t, "documento", "bolletta.jpg", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	api.AnalyzeHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 senza campo file, got %d", w.Code)
	}
}

func TestAnalyzeHandler_FormatoNonSupportato(t *testing.T) {
	api := testAPI(t, stubExtractor(`{}`))
	body, ct := multipartBody(t, "file", "note.txt", []byte("testo semplice"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	api.AnalyzeHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 per file di testo, got %d", w.Code)
	}
}

func TestAnalyzeHandler_ImmagineValida(t *testing.T) {
	reply := `{"categoria":"energia","fornitore_attuale":"Enel Energia","spesa_mensile_attuale":42.70}`
	api := testAPI(t, stubExtractor(reply))

	body, ct := multipartBody(t, "file", "bolletta-enel.jpg", jpegBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	api.AnalyzeHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Profile     map[string]interface{}   `json:"profile"`
		Suggestions []map[string]interface{} `json:"suggestions"`
		AnalysisID  int64                    `json:"analysis_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result.Profile["fornitore_attuale"] != "Enel Energia" {
		t.Errorf("Profilo non coerente: %+v", result.Profile)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("Attese alternative per spesa 42.70")
	}
	if result.AnalysisID == 0 {
		t.Fatal("Analisi non persistita")
	}

	saved, err := api.Store.Get(result.AnalysisID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if saved.Filename != "bolletta-enel.jpg" {
		t.Errorf("Filename atteso bolletta-enel.jpg, trovato %q", saved.Filename)
	}
	if saved.MigliorRisparmioAnnuo <= 0 {
		t.Errorf("Miglior risparmio non salvato: %.2f", saved.MigliorRisparmioAnnuo)
	}
}

func TestAnalysesHandler_ListaEDelete(t *testing.T) {
	api := testAPI(t, nil)
	id, err := api.Store.Insert(&models.Analysis{
		Categoria: models.CategoriaEnergia, FornitoreAttuale: "Enel Energia",
		SpesaMensileAttuale: 42.70, Filename: "bolletta.pdf",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	w := httptest.NewRecorder()
	api.AnalysesHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var result struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Count != 1 {
		t.Errorf("Count atteso 1, trovato %d", result.Count)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/analyses/abc", nil)
	w = httptest.NewRecorder()
	api.AnalysesHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 con id non numerico, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/analyses/%d", id), nil)
	w = httptest.NewRecorder()
	api.AnalysesHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 per delete, got %d: %s", w.Code, w.Body.String())
	}
	if _, err := api.Store.Get(id); err == nil {
		t.Error("La riga dovrebbe essere stata eliminata")
	}
}

func TestMonitorHandler(t *testing.T) {
	api := testAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/monitor", nil)
	w := httptest.NewRecorder()
	api.MonitorHandler(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405 per GET, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/monitor", nil)
	w = httptest.NewRecorder()
	api.MonitorHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if _, ok := report["checked"]; !ok {
		t.Error("Report senza campo checked")
	}
}

func TestHealthHandler(t *testing.T) {
	api := testAPI(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	api.HealthHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("Status atteso ok, trovato %v", result["status"])
	}
	if result["catalog_size"].(float64) == 0 {
		t.Error("Catalogo vuoto nella health")
	}
	if result["ai_enabled"] != false {
		t.Error("ai_enabled atteso false senza estrattore")
	}
}

func TestReportHandler_PDF(t *testing.T) {
	api := testAPI(t, nil)
	body := `{
		"profile": {"categoria":"energia","fornitore_attuale":"Enel Energia","spesa_mensile_attuale":42.70,"spesa_annua_attuale":512.40},
		"suggestions": [{"id":"sorgenia-next-business","fornitore":"Sorgenia","nome_offerta":"Next Energy Business","costo_mensile_stimato":8.9,"risparmio_annuo_stimato":405.60,"risparmio_percentuale":0.79,"vincolo_mesi":12,"tag":"massimo_risparmio","is_best":true}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(body))
	w := httptest.NewRecorder()
	api.ReportHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type atteso application/pdf, trovato %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("Il body non è un PDF")
	}
}

func TestReportHandler_CategoriaNonValida(t *testing.T) {
	api := testAPI(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(`{"profile":{"categoria":"lavanderia"}}`))
	w := httptest.NewRecorder()
	api.ReportHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 con categoria non valida, got %d", w.Code)
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed, limited := 0, 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		switch w.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	if allowed != 3 || limited != 2 {
		t.Errorf("Burst 3: attesi 3 ok e 2 limitati, trovati %d/%d", allowed, limited)
	}

	// IP diverso: bucket separato
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("IP nuovo non deve essere limitato, got %d", w.Code)
	}
}
