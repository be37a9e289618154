package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/BruksfildServices01/home-services-api/internal/config"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
)

// Templates embutidos: simples o bastante pra não depender de arquivo
// em disco nem de working directory.
var templates = map[string]*struct {
	Subject string
	Body    *template.Template
}{
	TemplateBookingConfirmed: {
		Subject: "Seu orçamento foi aprovado — efetue o pagamento",
		Body: template.Must(template.New(TemplateBookingConfirmed).Parse(`
<p>Olá {{.customer_name}},</p>
<p>O prestador <strong>{{.vendor_name}}</strong> aceitou seu pedido de
<strong>{{.service_type}}</strong> por <strong>{{.price}}</strong>.</p>
<p>Finalize o pagamento para garantir o serviço.</p>
`)),
	},
	TemplateBookingCompleted: {
		Subject: "Serviço concluído — conte como foi",
		Body: template.Must(template.New(TemplateBookingCompleted).Parse(`
<p>Olá {{.customer_name}},</p>
<p>O serviço de <strong>{{.service_type}}</strong> foi marcado como concluído.</p>
<p>Deixe sua avaliação para ajudar outros clientes.</p>
`)),
	},
	TemplateBookingCancelled: {
		Subject: "Agendamento cancelado",
		Body: template.Must(template.New(TemplateBookingCancelled).Parse(`
<p>Olá {{.recipient_name}},</p>
<p>O agendamento de <strong>{{.service_type}}</strong> foi cancelado.</p>
{{if .reason}}<p>Motivo: {{.reason}}</p>{{end}}
`)),
	},
}

type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTP(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, templateType string, recipient string, data map[string]any) error {
	tmpl, ok := templates[templateType]
	if !ok {
		return httperr.ErrBusiness("unknown_template")
	}

	var body bytes.Buffer
	if err := tmpl.Body.Execute(&body, data); err != nil {
		return fmt.Errorf("render template %s: %w", templateType, err)
	}

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\n%s\r\n%s",
		recipient, tmpl.Subject, mime, body.String(),
	))

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	return smtp.SendMail(addr, auth, n.from, []string{recipient}, msg)
}

var _ Notifier = (*SMTPNotifier)(nil)
