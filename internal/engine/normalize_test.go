package engine

import (
	"encoding/json"
	"math"
	"testing"

	"bizsaver/internal/models"
)

func TestNormalize_GasInEnergia(t *testing.T) {
	got := Normalize(models.RawProfile{
		Categoria:           "GAS",
		FornitoreAttuale:    "Eni Plenitude",
		SpesaMensileAttuale: 50.0,
	})
	if got.Categoria != models.CategoriaEnergia {
		t.Errorf("GAS deve confluire in energia, trovato %s", got.Categoria)
	}
	if !approx(got.SpesaMensileAttuale, 50) || !approx(got.SpesaAnnuaAttuale, 600) {
		t.Errorf("Attesi 50/600, trovati %.2f/%.2f", got.SpesaMensileAttuale, got.SpesaAnnuaAttuale)
	}
}

func TestNormalize_CategoriaSconosciuta(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "criptovalute"})
	if got.Categoria != models.CategoriaEnergia {
		t.Errorf("Categoria sconosciuta deve diventare energia, trovato %s", got.Categoria)
	}
}

func TestNormalize_DerivaMensileDaAnnua(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "assicurazioni", SpesaAnnuaAttuale: 1200.0})
	if !approx(got.SpesaMensileAttuale, 100) {
		t.Errorf("Attesa spesa mensile 100, trovata %.2f", got.SpesaMensileAttuale)
	}
}

func TestNormalize_FornitoreMancante(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "internet", FornitoreAttuale: "   "})
	if got.FornitoreAttuale != ProviderNotSpecified {
		t.Errorf("Atteso sentinel %q, trovato %q", ProviderNotSpecified, got.FornitoreAttuale)
	}
}

func TestNormalize_ValutaDefault(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "energia"})
	if got.Valuta != "EUR" {
		t.Errorf("Valuta default EUR, trovata %q", got.Valuta)
	}
}

func TestNormalize_ValoriNonFiniti(t *testing.T) {
	got := Normalize(models.RawProfile{
		Categoria:           "energia",
		SpesaMensileAttuale: math.NaN(),
		SpesaAnnuaAttuale:   math.Inf(1),
	})
	if got.SpesaMensileAttuale != 0 || got.SpesaAnnuaAttuale != 0 {
		t.Errorf("NaN/Inf devono diventare 0, trovati %v/%v", got.SpesaMensileAttuale, got.SpesaAnnuaAttuale)
	}
}

func TestNormalize_ImportoNegativo(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "energia", SpesaMensileAttuale: -30.0})
	if got.SpesaMensileAttuale != 0 {
		t.Errorf("Importo negativo deve diventare 0, trovato %.2f", got.SpesaMensileAttuale)
	}
}

func TestNormalize_NumeroComeStringa(t *testing.T) {
	got := Normalize(models.RawProfile{Categoria: "energia", SpesaMensileAttuale: "1.234,56"})
	if !approx(got.SpesaMensileAttuale, 1234.56) {
		t.Errorf("Formato italiano 1.234,56: atteso 1234.56, trovato %.2f", got.SpesaMensileAttuale)
	}
}

func TestNormalize_TipoDocumentoDaDettagli(t *testing.T) {
	got := Normalize(models.RawProfile{
		Categoria: "assicurazioni",
		Dettagli:  map[string]interface{}{"tipo_documento": "polizza RC moto"},
	})
	if got.TipoDocumento != "polizza RC moto" {
		t.Errorf("tipo_documento non propagato: %q", got.TipoDocumento)
	}
}

func TestNormalize_DaJSONGrezzo(t *testing.T) {
	// Payload come arriva davvero dal servizio di estrazione
	payload := `{
		"categoria": "telefonia_mobile",
		"fornitore_attuale": "TIM",
		"spesa_mensile_attuale": 24.99,
		"valuta": "EUR",
		"dettagli": {"tipo_documento": "fattura telefonia mobile"}
	}`
	var raw models.RawProfile
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Normalize(raw)
	if got.Categoria != models.CategoriaTelefoniaMobile {
		t.Errorf("Categoria attesa telefonia_mobile, trovata %s", got.Categoria)
	}
	if !approx(got.SpesaAnnuaAttuale, 299.88) {
		t.Errorf("Spesa annua attesa 299.88, trovata %.2f", got.SpesaAnnuaAttuale)
	}
}
