package monitor

import (
	"encoding/json"
	"net/http"
	"sync"

	"bizsaver/internal/config"
	"bizsaver/internal/models"
)

const maxImprovements = 100

var (
	improvementsMu sync.Mutex
	improvements   []models.Improvement
)

// RecordImprovements appends improvements to the ring buffer (max 100).
func RecordImprovements(imps []models.Improvement) {
	improvementsMu.Lock()
	defer improvementsMu.Unlock()
	improvements = append(improvements, imps...)
	if len(improvements) > maxImprovements {
		improvements = improvements[len(improvements)-maxImprovements:]
	}
}

// GetImprovements returns a copy of recent improvements (newest first).
func GetImprovements() []models.Improvement {
	improvementsMu.Lock()
	defer improvementsMu.Unlock()
	result := make([]models.Improvement, len(improvements))
	copy(result, improvements)
	// Reverse for newest-first
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// AdminImprovementsHandler serves GET /api/admin/improvements.
// Protected by ADMIN_API_KEY (query param "key" or header "X-Admin-Key").
func AdminImprovementsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !checkAdminKey(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	imps := GetImprovements()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(imps)
}

func checkAdminKey(r *http.Request) bool {
	key := config.Cfg.AdminAPIKey
	if key == "" {
		return true // no key configured = open access (dev mode)
	}
	if r.URL.Query().Get("key") == key {
		return true
	}
	if r.Header.Get("X-Admin-Key") == key {
		return true
	}
	return false
}
