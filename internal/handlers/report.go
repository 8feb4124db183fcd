package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"bizsaver/internal/models"
	sentryutil "bizsaver/internal/sentry"

	"github.com/jung-kurt/gofpdf"
)

// PDF design colors
var (
	cBlue    = [3]int{27, 58, 84}
	cBlueLt  = [3]int{44, 82, 110}
	cGreen   = [3]int{42, 107, 69}
	cGreenBg = [3]int{233, 245, 237}
	cCream   = [3]int{248, 247, 243}
	cInk75   = [3]int{64, 64, 64}
	cInk50   = [3]int{107, 107, 107}
	cInk30   = [3]int{160, 160, 160}
	cInk08   = [3]int{235, 235, 235}
	cWhite   = [3]int{255, 255, 255}
)

const (
	pageW    = 210.0
	pageH    = 297.0
	marginL  = 20.0
	marginR  = 20.0
	contentW = pageW - marginL - marginR
)

func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setDraw(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetDrawColor(c[0], c[1], c[2]) }

func fmtEuro(amount float64) string {
	if amount == 0 {
		return "0"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int(amount)
	frac := int(math.Round((amount - float64(whole)) * 100))
	s := addDotSep(fmt.Sprintf("%d", whole))
	prefix := ""
	if neg {
		prefix = "-"
	}
	if frac > 0 {
		return fmt.Sprintf("%s%s,%02d", prefix, s, frac)
	}
	return prefix + s
}

func addDotSep(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	return addDotSep(s[:n-3]) + "." + s[n-3:]
}

func transliterate(s string) string {
	replacer := strings.NewReplacer(
		"à", "a", "è", "e", "é", "e", "ì", "i", "ò", "o", "ù", "u",
		"À", "A", "È", "E", "É", "E", "Ì", "I", "Ò", "O", "Ù", "U",
		"€", "EUR ", "–", "-",
	)
	return replacer.Replace(s)
}

// ensureSpace checks if there's enough room; if not, adds a page.
func ensureSpace(pdf *gofpdf.Fpdf, needed float64) float64 {
	y := pdf.GetY()
	if y+needed > pageH-25 {
		pdf.AddPage()
		return 25
	}
	return y
}

type reportRequest struct {
	Profile     models.CurrentCostProfile     `json:"profile"`
	Suggestions []models.SuggestedAlternative `json:"suggestions"`
}

// ReportHandler serves POST /api/report: renders the analysis result as a
// downloadable PDF.
func (a *API) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !req.Profile.Categoria.Valid() {
		http.Error(w, "Categoria non valida", http.StatusBadRequest)
		return
	}

	now := time.Now()
	dateDisplay := now.Format("02/01/2006")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginL, 15, marginR)
	pdf.SetAutoPageBreak(false, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		setDraw(pdf, cInk08)
		pdf.SetLineWidth(0.3)
		pdf.Line(marginL, pdf.GetY(), pageW-marginR, pdf.GetY())
		pdf.SetY(-11)
		pdf.SetFont("Helvetica", "", 6.5)
		setText(pdf, cInk30)
		pdf.SetX(marginL)
		pdf.CellFormat(contentW/2, 8, "bizsaver.it", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 8, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header band
	headerH := 48.0
	setFill(pdf, cBlue)
	pdf.Rect(0, 0, pageW, headerH, "F")
	setFill(pdf, cBlueLt)
	pdf.Rect(0, headerH-3, pageW, 3, "F")

	pdf.SetXY(marginL, 14)
	pdf.SetFont("Helvetica", "B", 24)
	setText(pdf, cWhite)
	pdf.CellFormat(contentW, 10, "BizSaver", "", 1, "L", false, 0, "")

	pdf.SetXY(marginL, 26)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(210, 220, 230)
	pdf.CellFormat(contentW, 6, "Report Risparmio Aziendale", "", 1, "L", false, 0, "")

	pdf.SetXY(marginL, 34)
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(170, 185, 200)
	pdf.CellFormat(contentW, 5, transliterate("Generato il "+dateDisplay), "", 1, "L", false, 0, "")

	// Current profile box
	y := headerH + 10
	setFill(pdf, cCream)
	pdf.Rect(marginL, y, contentW, 28, "F")
	pdf.SetXY(marginL+5, y+4)
	pdf.SetFont("Helvetica", "B", 9)
	setText(pdf, cInk75)
	pdf.CellFormat(contentW-10, 5, "SITUAZIONE ATTUALE", "", 1, "L", false, 0, "")
	pdf.SetX(marginL + 5)
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, cInk50)
	pdf.CellFormat(contentW-10, 5, transliterate(fmt.Sprintf("Categoria: %s   Fornitore: %s",
		categoriaLabel(req.Profile.Categoria), req.Profile.FornitoreAttuale)), "", 1, "L", false, 0, "")
	pdf.SetX(marginL + 5)
	pdf.CellFormat(contentW-10, 5, transliterate(fmt.Sprintf("Spesa mensile: %s EUR   Spesa annua: %s EUR",
		fmtEuro(req.Profile.SpesaMensileAttuale), fmtEuro(req.Profile.SpesaAnnuaAttuale))), "", 1, "L", false, 0, "")

	y += 36
	pdf.SetXY(marginL, y)

	if len(req.Suggestions) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		setText(pdf, cInk50)
		pdf.CellFormat(contentW, 6, transliterate("Nessuna alternativa più conveniente trovata: la tua offerta attuale è già competitiva."), "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 11)
		setText(pdf, cBlue)
		pdf.CellFormat(contentW, 6, fmt.Sprintf("ALTERNATIVE CONSIGLIATE (%d)", len(req.Suggestions)), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		for i, s := range req.Suggestions {
			drawSuggestion(pdf, i+1, s)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bizsaver-report-%s.pdf"`, now.Format("2006-01-02")))
	w.Header().Set("Cache-Control", "no-store")
	if err := pdf.Output(w); err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "report", "phase": "render"})
	}
}

func drawSuggestion(pdf *gofpdf.Fpdf, num int, s models.SuggestedAlternative) {
	y := ensureSpace(pdf, 26)
	pdf.SetY(y)

	// Left accent bar, green for the best pick
	bar := cInk30
	if s.IsBest {
		bar = cGreen
	}
	setFill(pdf, bar)
	pdf.Rect(marginL, y, 2.5, 22, "F")

	pdf.SetXY(marginL+6, y+1)
	pdf.SetFont("Helvetica", "B", 10)
	setText(pdf, cInk75)
	title := fmt.Sprintf("%d. %s - %s", num, s.Fornitore, s.NomeOfferta)
	pdf.CellFormat(contentW-6, 5.5, transliterate(title), "", 1, "L", false, 0, "")

	pdf.SetX(marginL + 6)
	pdf.SetFont("Helvetica", "", 8.5)
	setText(pdf, cInk50)
	vincolo := "nessun vincolo"
	if s.VincoloMesi > 0 {
		vincolo = fmt.Sprintf("vincolo %d mesi", s.VincoloMesi)
	}
	pdf.CellFormat(contentW-6, 4.5, transliterate(fmt.Sprintf("%s EUR/mese   %s   tag: %s",
		fmtEuro(s.CostoMensileStimato), vincolo, string(s.Tag))), "", 1, "L", false, 0, "")

	pdf.SetX(marginL + 6)
	pdf.SetFont("Helvetica", "B", 9)
	setText(pdf, cGreen)
	setFill(pdf, cGreenBg)
	saving := fmt.Sprintf("Risparmio stimato: %s EUR/anno (%.0f%%)", fmtEuro(s.RisparmioAnnuoStimato), s.RisparmioPercentuale*100)
	pdf.CellFormat(pdf.GetStringWidth(transliterate(saving))+6, 5.5, transliterate(saving), "", 1, "L", true, 0, "")

	pdf.Ln(4)
}

func categoriaLabel(c models.CostCategory) string {
	switch c {
	case models.CategoriaEnergia:
		return "Energia"
	case models.CategoriaTelefoniaMobile:
		return "Telefonia mobile"
	case models.CategoriaInternet:
		return "Internet"
	case models.CategoriaAssicurazioni:
		return "Assicurazioni"
	case models.CategoriaNoleggioAuto:
		return "Noleggio auto"
	}
	return string(c)
}
