package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var pinResetTemplate = template.Must(template.New("pinreset").Parse(`<p>Hallo {{.Name}},</p>
<p>deine PIN für die Trainer-Einteilung wurde zurückgesetzt.</p>
<p>Neue PIN: <strong>{{.Pin}}</strong></p>
<p>Bitte ändere sie nach der nächsten Anmeldung unter „Mein Profil“.</p>`))

// PinResetMessage builds the notice sent after an admin reset a trainer's PIN.
// PRE: to is a non-empty address
// POST: HTML is escaped; the request has exactly one recipient
func PinResetMessage(to, name, pin string) (SendRequest, error) {
	var buf bytes.Buffer
	if err := pinResetTemplate.Execute(&buf, struct{ Name, Pin string }{name, pin}); err != nil {
		return SendRequest{}, fmt.Errorf("render pin reset mail: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Deine neue PIN",
		HTML:    buf.String(),
	}, nil
}
