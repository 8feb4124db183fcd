package engine

import (
	"math"
	"strconv"
	"strings"

	"bizsaver/internal/models"
)

// ProviderNotSpecified is the sentinel used when the extraction service
// could not identify the current provider.
const ProviderNotSpecified = "Fornitore non specificato"

// Normalize converts the untrusted extraction payload into a canonical
// profile. It never fails: malformed fields fall back to conservative
// defaults instead of surfacing errors.
func Normalize(raw models.RawProfile) models.CurrentCostProfile {
	monthly := asNumber(raw.SpesaMensileAttuale)
	annual := asNumber(raw.SpesaAnnuaAttuale)

	if monthly > 0 && annual == 0 {
		annual = monthly * 12
	} else if annual > 0 && monthly == 0 {
		monthly = annual / 12
	}
	// Entrambi presenti ma incoerenti: ci fidiamo dei valori estratti.

	if !isFinite(monthly) {
		monthly = 0
	}
	if !isFinite(annual) {
		annual = 0
	}

	fornitore := strings.TrimSpace(asString(raw.FornitoreAttuale))
	if fornitore == "" {
		fornitore = ProviderNotSpecified
	}

	valuta := strings.TrimSpace(asString(raw.Valuta))
	if valuta == "" {
		valuta = "EUR"
	}

	dettagli := asMap(raw.Dettagli)

	return models.CurrentCostProfile{
		Categoria:           NormalizeCategoria(raw.Categoria),
		TipoDocumento:       strings.TrimSpace(asString(dettagli["tipo_documento"])),
		FornitoreAttuale:    fornitore,
		SpesaMensileAttuale: monthly,
		SpesaAnnuaAttuale:   annual,
		Valuta:              valuta,
		Dettagli:            dettagli,
	}
}

// NormalizeCategoria resolves a raw category value to a valid CostCategory.
// "gas" is folded into energia; anything unrecognized defaults to energia.
func NormalizeCategoria(v interface{}) models.CostCategory {
	s := strings.ToLower(strings.TrimSpace(asString(v)))
	if s == "gas" {
		return models.CategoriaEnergia
	}
	if c := models.CostCategory(s); c.Valid() {
		return c
	}
	return models.CategoriaEnergia
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asNumber reads a numeric field that may arrive as float, int or string
// (including Italian decimal commas). Non-numeric, negative or non-finite
// values become 0.
func asNumber(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if strings.Contains(s, ",") {
			// 1.234,56 -> 1234.56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if !isFinite(f) || f < 0 {
		return 0
	}
	return f
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}
