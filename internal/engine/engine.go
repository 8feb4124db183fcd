package engine

import (
	"math"
	"regexp"
	"sort"

	"bizsaver/internal/catalog"
	"bizsaver/internal/models"
)

// SuggestInput is the profile summary the ranking engine works on.
type SuggestInput struct {
	Categoria           models.CostCategory `json:"categoria"`
	SpesaMensileAttuale float64             `json:"spesa_mensile_attuale"`
	TipoDocumento       string              `json:"tipo_documento,omitempty"`
}

// Polizze moto/motoveicolo: al momento non offriamo alternative.
var motoRe = regexp.MustCompile(`(?i)moto|motocicl|motoveicol`)

// Score adjustments applied on top of the annual saving.
const (
	longLockInPenalty = 40 // vincolo > 24 mesi
	shortLockInBonus  = 20 // vincolo <= 12 mesi
	greenBonus        = 10
	premiumBonus      = 5
)

type scoredCandidate struct {
	alt      models.SuggestedAlternative
	rawDelta float64 // positivo = offerta più economica della spesa attuale
}

// Suggest filters the catalog by category, scores and ranks the offers that
// are strictly cheaper than the current spend, and assigns qualitative tags.
// It returns nil when no offer brings a real saving. Pure: same input and
// catalog always produce the same ordered output.
func Suggest(cat *catalog.Catalog, in SuggestInput) []models.SuggestedAlternative {
	if in.Categoria == models.CategoriaAssicurazioni &&
		in.TipoDocumento != "" && motoRe.MatchString(in.TipoDocumento) {
		return nil
	}

	// Floor a 1 per evitare divisioni per zero quando la spesa non è nota.
	base := in.SpesaMensileAttuale
	if base <= 0 {
		base = 1
	}

	candidates := cat.ByCategory(in.Categoria)
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	hasRealSaving := false
	for _, offer := range candidates {
		rawDelta := base - offer.CostoMensileBase
		monthlySaving := math.Max(0, rawDelta)
		annualSaving := monthlySaving * 12
		perc := monthlySaving / base

		score := annualSaving
		if offer.VincoloMesi > 24 {
			score -= longLockInPenalty
		} else if offer.VincoloMesi > 0 && offer.VincoloMesi <= 12 {
			score += shortLockInBonus
		}
		if offer.TagPredefinito == models.TagGreen {
			score += greenBonus
		}
		if offer.TagPredefinito == models.TagPremium {
			score += premiumBonus
		}

		if rawDelta > 0 {
			hasRealSaving = true
		}

		tag := offer.TagPredefinito
		if tag == "" {
			tag = models.TagNessuna
		}

		scored = append(scored, scoredCandidate{
			alt: models.SuggestedAlternative{
				ID:                    offer.ID,
				Categoria:             offer.Categoria,
				Fornitore:             offer.Fornitore,
				NomeOfferta:           offer.NomeOfferta,
				TipoOfferta:           offer.TipoOfferta,
				CostoMensileStimato:   offer.CostoMensileBase,
				RisparmioAnnuoStimato: annualSaving,
				RisparmioPercentuale:  perc,
				VincoloMesi:           offer.VincoloMesi,
				LinkOfferta:           offer.LinkOfferta,
				Note:                  offer.Note,
				Tag:                   tag,
				Score:                 score,
			},
			rawDelta: rawDelta,
		})
	}

	// Se nessuna offerta è economicamente migliore, niente alternative.
	if !hasRealSaving {
		return nil
	}

	better := scored[:0]
	for _, c := range scored {
		if c.rawDelta > 0 {
			better = append(better, c)
		}
	}

	// Stable: a parità di score vince l'ordine di inserimento nel catalogo.
	sort.SliceStable(better, func(i, j int) bool {
		return better[i].alt.Score > better[j].alt.Score
	})

	assignTags(better)

	out := make([]models.SuggestedAlternative, len(better))
	for i := range better {
		out[i] = better[i].alt
	}
	return out
}

// assignTags rewrites tags over the ranked list: the top entry gets
// massimo_risparmio when its saving percentage is close enough to the best
// one, the others get flessibile for short lock-ins, keep green/premium,
// or fall back to equilibrata.
func assignTags(ranked []scoredCandidate) {
	if len(ranked) == 0 {
		return
	}
	maxPerc := 0.0
	for _, c := range ranked {
		if c.alt.RisparmioPercentuale > maxPerc {
			maxPerc = c.alt.RisparmioPercentuale
		}
	}
	for i := range ranked {
		s := &ranked[i].alt
		switch {
		case i == 0:
			if s.RisparmioPercentuale >= maxPerc*0.8 {
				s.Tag = models.TagMassimoRisparmio
			} else if s.Tag == models.TagNessuna {
				s.Tag = models.TagEquilibrata
			}
		case s.VincoloMesi > 0 && s.VincoloMesi <= 12:
			s.Tag = models.TagFlessibile
		case s.Tag == models.TagGreen || s.Tag == models.TagPremium:
			// keep
		default:
			s.Tag = models.TagEquilibrata
		}
	}
}

// MarkBest flags the top-ranked suggestion. Callers apply it to the list
// returned by Suggest before handing it to clients or storage.
func MarkBest(suggestions []models.SuggestedAlternative) []models.SuggestedAlternative {
	if len(suggestions) > 0 {
		suggestions[0].IsBest = true
	}
	return suggestions
}

// BestAnnualSaving returns the annual saving of the top suggestion, or 0.
func BestAnnualSaving(suggestions []models.SuggestedAlternative) float64 {
	if len(suggestions) == 0 {
		return 0
	}
	if s := suggestions[0].RisparmioAnnuoStimato; s > 0 {
		return s
	}
	return 0
}
