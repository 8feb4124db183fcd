package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bizsaver/internal/models"

	"google.golang.org/genai"
)

type stubGemini struct {
	reply string
	err   error
	calls int
	parts []*genai.Part
}

func (s *stubGemini) GenerateParts(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	s.calls++
	s.parts = parts
	return s.reply, s.err
}

func TestAnalyzeImage_RispostaConFence(t *testing.T) {
	stub := &stubGemini{reply: "```json\n{\"categoria\": \"telefonia_mobile\", \"fornitore_attuale\": \"TIM\", \"spesa_mensile_attuale\": 24.99}\n```"}
	ex := New(stub, "gemini-2.5-flash")

	profile, err := ex.AnalyzeImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if profile.Categoria != models.CategoriaTelefoniaMobile {
		t.Errorf("Categoria attesa telefonia_mobile, trovata %s", profile.Categoria)
	}
	if profile.FornitoreAttuale != "TIM" {
		t.Errorf("Fornitore atteso TIM, trovato %q", profile.FornitoreAttuale)
	}
	if profile.SpesaAnnuaAttuale == 0 {
		t.Error("Spesa annua non derivata dalla mensile")
	}
	if stub.calls != 1 {
		t.Errorf("Attesa una chiamata al modello, trovate %d", stub.calls)
	}
	if len(stub.parts) != 2 || stub.parts[1].InlineData == nil {
		t.Error("L'immagine deve viaggiare come InlineData")
	}
	if stub.parts[1].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("MIME type non propagato: %s", stub.parts[1].InlineData.MIMEType)
	}
}

func TestAnalyzeImage_RispostaNonJSON(t *testing.T) {
	stub := &stubGemini{reply: "Mi dispiace, non riesco a leggere il documento."}
	ex := New(stub, "gemini-2.5-flash")
	if _, err := ex.AnalyzeImage(context.Background(), []byte{0x00}, "image/png"); err == nil {
		t.Error("Risposta senza JSON deve dare errore")
	}
}

func TestAnalyzeImage_ErroreModello(t *testing.T) {
	stub := &stubGemini{err: errors.New("gemini quota exceeded")}
	ex := New(stub, "gemini-2.5-flash")
	if _, err := ex.AnalyzeImage(context.Background(), []byte{0x00}, "image/png"); err == nil {
		t.Error("Errore del modello deve propagarsi")
	}
}

func TestAnalyzePDF_BytesNonPDF(t *testing.T) {
	ex := New(&stubGemini{}, "gemini-2.5-flash")
	if _, err := ex.AnalyzePDF(context.Background(), []byte("non sono un pdf")); err == nil {
		t.Error("Bytes non PDF devono dare errore di lettura")
	}
}

func TestCleanJSONReply(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Ecco il risultato: {\"a\":1} spero sia utile", `{"a":1}`},
		{"nessun json qui", "nessun json qui"},
	}
	for _, c := range cases {
		if got := cleanJSONReply(c.in); got != c.want {
			t.Errorf("cleanJSONReply(%q) = %q, atteso %q", c.in, got, c.want)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError("rpc error: code 503 service unavailable") {
		t.Error("503 deve essere ritentabile")
	}
	if !isRetryableError("the model is overloaded") {
		t.Error("overloaded deve essere ritentabile")
	}
	if isRetryableError("invalid api key") {
		t.Error("Errore di autenticazione non è ritentabile")
	}
}

func TestIsQuotaError(t *testing.T) {
	if !isQuotaError("429 RESOURCE_EXHAUSTED: Quota exceeded") {
		t.Error("Quota exceeded deve essere riconosciuto")
	}
	if isQuotaError("connection refused") {
		t.Error("Errore di rete non è un errore di quota")
	}
}

func TestPromptContieneContratto(t *testing.T) {
	// Il contratto JSON del prompt deve citare tutte le categorie supportate
	for _, c := range []string{"energia", "internet", "telefonia_mobile", "assicurazioni", "noleggio_auto"} {
		if !strings.Contains(extractionPrompt, c) {
			t.Errorf("Prompt senza categoria %s", c)
		}
	}
}
