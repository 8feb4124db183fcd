package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bizsaver/internal/engine"
	"bizsaver/internal/models"

	"github.com/ledongthuc/pdf"
	"google.golang.org/genai"
)

// maxTextLen caps the PDF text sent to the model.
const maxTextLen = 12000

const extractionPrompt = `Sei un assistente che analizza documenti ITALIANI di costi aziendali:
- bollette luce/gas
- offerte internet/fibra
- contratti / fatture telefonia mobile
- polizze assicurative
- contratti di noleggio auto a lungo termine.

Devi estrarre i dati ECONOMICI principali e normalizzarli in questo JSON ESATTO:

{
  "categoria": "energia | internet | telefonia_mobile | assicurazioni | noleggio_auto",
  "fornitore_attuale": "string",
  "spesa_mensile_attuale": number,
  "spesa_annua_attuale": number,
  "valuta": "EUR",
  "dettagli": {
    "periodo_riferimento": "string | null",
    "tipo_documento": "string | null",
    "note": "string | null"
  }
}

REGOLE IMPORTANTI:

- "categoria" DEVE essere UNA SOLA tra:
  - "energia"
  - "internet"
  - "telefonia_mobile"
  - "assicurazioni"
  - "noleggio_auto"

- "fornitore_attuale": usa il nome dell'azienda che emette la bolletta/contratto
  (es. ENEL ENERGIA, TIM, VODAFONE, UNIPOLSAI, LEASEPLAN...).

- IMPORTI:
  - Se vedi un importo TOTALE da pagare per un PERIODO (mese, bimestre, ecc.), usa quello.
  - Se la bolletta è BIMESTRALE: calcola spesa_mensile_attuale = totale / 2.
  - Se nel documento è indicato SOLO un importo annuo o un premio annuale:
      - spesa_annua_attuale = importo annuo
      - spesa_mensile_attuale = importo annuo / 12
  - Se vedi importi mensili di canone/abbonamento:
      - spesa_mensile_attuale = canone mensile
      - spesa_annua_attuale = canone mensile * 12

- VALORI NUMERICI: usa numeri, NON stringhe, con il punto come separatore decimale.

- "valuta": usa SEMPRE "EUR".

- "dettagli":
  - "periodo_riferimento": se trovi "fattura dal ... al ..." o "conguaglio ...", stringa sintetica.
  - "tipo_documento": esempio "bolletta luce", "fattura telefonia mobile", "polizza RC auto", "contratto noleggio auto".
  - "note": eventuali info utili (es. "importo include IVA", "bolletta di conguaglio").

NON aggiungere testo fuori dal JSON.
Rispondi SOLO con un JSON valido.`

// Extractor turns raw document bytes into a normalized cost profile using
// the Gemini API.
type Extractor struct {
	client GeminiClient
	model  string
}

func New(client GeminiClient, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// AnalyzePDF extracts the text layer of a PDF and asks the model for the
// economic profile.
func (e *Extractor) AnalyzePDF(ctx context.Context, data []byte) (models.CurrentCostProfile, error) {
	text, err := pdfText(data)
	if err != nil {
		return models.CurrentCostProfile{}, fmt.Errorf("lettura PDF: %w", err)
	}
	if len(text) > maxTextLen {
		text = text[:maxTextLen]
	}
	parts := []*genai.Part{
		{Text: extractionPrompt + "\n\nDi seguito il testo estratto dal documento. Analizzalo e restituisci SOLO il JSON richiesto.\n\n" + text},
	}
	return e.generateProfile(ctx, parts)
}

// AnalyzeImage sends the image inline to the model (vision path).
func (e *Extractor) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (models.CurrentCostProfile, error) {
	parts := []*genai.Part{
		{Text: extractionPrompt + "\n\nAnalizza questa bolletta/polizza/contratto e restituisci SOLO il JSON richiesto."},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
	}
	return e.generateProfile(ctx, parts)
}

func (e *Extractor) generateProfile(ctx context.Context, parts []*genai.Part) (models.CurrentCostProfile, error) {
	reply, err := e.client.GenerateParts(ctx, e.model, parts)
	if err != nil {
		return models.CurrentCostProfile{}, fmt.Errorf("estrazione documento: %w", err)
	}

	var raw models.RawProfile
	if err := json.Unmarshal([]byte(cleanJSONReply(reply)), &raw); err != nil {
		return models.CurrentCostProfile{}, fmt.Errorf("impossibile interpretare il documento, riprova con una scansione più leggibile: %w", err)
	}

	return engine.Normalize(raw), nil
}

// cleanJSONReply strips markdown fences and any prose around the first JSON
// object in the model reply.
func cleanJSONReply(reply string) string {
	s := strings.ReplaceAll(reply, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// pdfText concatenates the plain text of every page.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}
	return sb.String(), nil
}
