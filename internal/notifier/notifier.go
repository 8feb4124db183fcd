package notifier

import (
	"fmt"
	"strings"

	"bizsaver/internal/logger"
	"bizsaver/internal/models"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier sends the monitor digest via Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
}

// New returns a configured notifier, or nil when the API key or recipient
// is missing. A nil notifier is safe to pass around: the monitor skips it.
func New(apiKey, from, to string) *EmailNotifier {
	if apiKey == "" || to == "" {
		logger.Warn("notifier disabilitato: RESEND_API_KEY o NOTIFY_TO mancante", nil)
		return nil
	}
	return &EmailNotifier{client: resend.NewClient(apiKey), from: from, to: to}
}

// SendImprovements sends one digest email for the whole batch.
func (n *EmailNotifier) SendImprovements(improvements []models.Improvement) error {
	if len(improvements) == 0 {
		return nil
	}

	subject := fmt.Sprintf("BizSaver: %d nuove opportunità di risparmio", len(improvements))
	if len(improvements) == 1 {
		subject = "BizSaver: nuova opportunità di risparmio"
	}

	sent, err := n.client.Emails.Send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Html:    digestHTML(improvements),
	})
	if err != nil {
		return fmt.Errorf("invio email: %w", err)
	}
	logger.Info("digest risparmio inviato", map[string]interface{}{
		"email_id": sent.Id, "improvements": len(improvements),
	})
	return nil
}

func digestHTML(improvements []models.Improvement) string {
	var sb strings.Builder
	sb.WriteString(`<h2>Nuove opportunità di risparmio</h2>`)
	sb.WriteString(`<p>Il monitoraggio ha trovato offerte migliori per le tue analisi:</p>`)
	for _, imp := range improvements {
		name := imp.Filename
		if name == "" {
			name = fmt.Sprintf("analisi #%d", imp.AnalysisID)
		}
		sb.WriteString(`<hr>`)
		sb.WriteString(fmt.Sprintf(`<h3>%s (%s)</h3>`, htmlEscape(name), htmlEscape(string(imp.Categoria))))
		sb.WriteString(fmt.Sprintf(`<p>Fornitore attuale: <b>%s</b></p>`, htmlEscape(imp.Fornitore)))
		sb.WriteString(fmt.Sprintf(`<p>Nuova offerta: <b>%s — %s</b></p>`,
			htmlEscape(imp.Best.Fornitore), htmlEscape(imp.Best.NomeOfferta)))
		sb.WriteString(fmt.Sprintf(`<p>Risparmio stimato: <b>%.2f €/anno</b> (prima: %.2f €/anno)</p>`,
			imp.NewSaving, imp.OldSaving))
		if imp.Best.LinkOfferta != "" {
			sb.WriteString(fmt.Sprintf(`<p><a href="%s">Vedi offerta</a></p>`, htmlEscape(imp.Best.LinkOfferta)))
		}
	}
	sb.WriteString(`<hr><p style="color:#888;font-size:12px">Email automatica di BizSaver.</p>`)
	return sb.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
