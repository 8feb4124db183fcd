package models

import "time"

// CostCategory is one of the five supported spending categories.
type CostCategory string

const (
	CategoriaEnergia         CostCategory = "energia"
	CategoriaTelefoniaMobile CostCategory = "telefonia_mobile"
	CategoriaInternet        CostCategory = "internet"
	CategoriaAssicurazioni   CostCategory = "assicurazioni"
	CategoriaNoleggioAuto    CostCategory = "noleggio_auto"
)

// Valid reports whether c is one of the five supported categories.
func (c CostCategory) Valid() bool {
	switch c {
	case CategoriaEnergia, CategoriaTelefoniaMobile, CategoriaInternet,
		CategoriaAssicurazioni, CategoriaNoleggioAuto:
		return true
	}
	return false
}

// Tag is the qualitative label assigned to a suggested alternative.
type Tag string

const (
	TagMassimoRisparmio Tag = "massimo_risparmio"
	TagEquilibrata      Tag = "equilibrata"
	TagFlessibile       Tag = "flessibile"
	TagGreen            Tag = "green"
	TagPremium          Tag = "premium"
	TagNessuna          Tag = "nessuna"
)

// RawProfile is the untrusted record returned by the AI extraction service.
// Every field is untyped and validated independently by engine.Normalize.
type RawProfile struct {
	Categoria           interface{} `json:"categoria"`
	FornitoreAttuale    interface{} `json:"fornitore_attuale"`
	SpesaMensileAttuale interface{} `json:"spesa_mensile_attuale"`
	SpesaAnnuaAttuale   interface{} `json:"spesa_annua_attuale"`
	Valuta              interface{} `json:"valuta"`
	Dettagli            interface{} `json:"dettagli"`
}

// CurrentCostProfile is the normalized economic summary of one analyzed document.
type CurrentCostProfile struct {
	Categoria           CostCategory           `json:"categoria"`
	TipoDocumento       string                 `json:"tipo_documento,omitempty"`
	FornitoreAttuale    string                 `json:"fornitore_attuale"`
	SpesaMensileAttuale float64                `json:"spesa_mensile_attuale"`
	SpesaAnnuaAttuale   float64                `json:"spesa_annua_attuale"`
	Valuta              string                 `json:"valuta"`
	Dettagli            map[string]interface{} `json:"dettagli,omitempty"`
}

// SuggestedAlternative is one catalog offer evaluated against a profile.
type SuggestedAlternative struct {
	ID                    string       `json:"id"`
	Categoria             CostCategory `json:"categoria"`
	Fornitore             string       `json:"fornitore"`
	NomeOfferta           string       `json:"nome_offerta"`
	TipoOfferta           string       `json:"tipo_offerta,omitempty"`
	CostoMensileStimato   float64      `json:"costo_mensile_stimato"`
	RisparmioAnnuoStimato float64      `json:"risparmio_annuo_stimato"`
	RisparmioPercentuale  float64      `json:"risparmio_percentuale"`
	VincoloMesi           int          `json:"vincolo_mesi,omitempty"`
	LinkOfferta           string       `json:"link_offerta,omitempty"`
	Note                  string       `json:"note,omitempty"`
	Tag                   Tag          `json:"tag"`
	Score                 float64      `json:"score"`
	IsBest                bool         `json:"is_best"`
}

// Analysis is one persisted document analysis, including monitor state.
type Analysis struct {
	ID                     int64                  `json:"id"`
	CreatedAt              time.Time              `json:"created_at"`
	Categoria              CostCategory           `json:"categoria"`
	TipoDocumento          string                 `json:"tipo_documento,omitempty"`
	FornitoreAttuale       string                 `json:"fornitore_attuale"`
	SpesaMensileAttuale    float64                `json:"spesa_mensile_attuale"`
	SpesaAnnuaAttuale      float64                `json:"spesa_annua_attuale"`
	MigliorRisparmioAnnuo  float64                `json:"miglior_risparmio_annuo"`
	Alternatives           []SuggestedAlternative `json:"alternatives,omitempty"`
	Filename               string                 `json:"filename,omitempty"`
	LastMonitoredAt        *time.Time             `json:"last_monitored_at,omitempty"`
	HasNewBetterOffer      bool                   `json:"has_new_better_offer"`
	NewBestSaving          *float64               `json:"new_best_saving,omitempty"`
	MonitorBestAlternative *SuggestedAlternative  `json:"monitor_best_alternative,omitempty"`
}

// MonitorUpdate is the per-row outcome of one monitor pass, persisted via upsert.
type MonitorUpdate struct {
	ID                     int64                 `json:"id"`
	LastMonitoredAt        time.Time             `json:"last_monitored_at"`
	HasNewBetterOffer      bool                  `json:"has_new_better_offer"`
	NewBestSaving          *float64              `json:"new_best_saving"`
	MonitorBestAlternative *SuggestedAlternative `json:"monitor_best_alternative"`
}

// Improvement is a genuinely new savings opportunity found by the monitor,
// worth a notification.
type Improvement struct {
	AnalysisID int64                `json:"analysis_id"`
	Filename   string               `json:"filename,omitempty"`
	Categoria  CostCategory         `json:"categoria"`
	Fornitore  string               `json:"fornitore"`
	OldSaving  float64              `json:"old_saving"`
	NewSaving  float64              `json:"new_saving"`
	Best       SuggestedAlternative `json:"best"`
	Timestamp  time.Time            `json:"timestamp"`
}

// MonitorReport summarizes one monitor pass over all stored analyses.
type MonitorReport struct {
	Checked        int       `json:"checked"`
	Improved       int       `json:"improved"`
	Unchanged      int       `json:"unchanged"`
	NoAlternatives int       `json:"noAlternatives"`
	Timestamp      time.Time `json:"timestamp"`
}
