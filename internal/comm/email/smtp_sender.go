package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/middleware"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
)

// SMTPSender delivers workflow emails over SMTP. When the config disables SMTP the
// sender logs and drops every message, which keeps local development working without
// a mail server.
type SMTPSender struct {
	cfg    *config.Config
	client *mail.Client
}

// NewSMTPSender creates the mail client from config. With SMTP disabled no client is
// created at all.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	if cfg.SMTPDisabled {
		return &SMTPSender{cfg: cfg}, nil
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPSender{cfg: cfg, client: client}, nil
}

// Ensure SMTPSender implements the email port
var _ portssvc.POEmailSender = (*SMTPSender)(nil)

type attachment struct {
	Name string
	Data []byte
}

func (s *SMTPSender) send(ctx context.Context, to, subject string, tmpl *template.Template, data any, att *attachment) error {
	if s.cfg.SMTPDisabled {
		middleware.GetLoggerFromCtx(ctx).Info("SMTP disabled, dropping email",
			slog.String("to", to), slog.String("subject", subject))
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.SMTPSender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %s: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())
	if att != nil {
		msg.AttachReader(att.Name, bytes.NewReader(att.Data))
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// SendApprovalRequestEmail asks the next approver in the chain to act.
func (s *SMTPSender) SendApprovalRequestEmail(ctx context.Context, data portssvc.ApprovalRequestEmail) error {
	subject := fmt.Sprintf("Purchase Order Approval Required - %s", data.PONumber)
	return s.send(ctx, data.ApproverEmail, subject, approvalRequestTmpl, data, nil)
}

// SendRejectionEmail tells the requester their order was rejected and by whom.
func (s *SMTPSender) SendRejectionEmail(ctx context.Context, data portssvc.RejectionEmail) error {
	subject := fmt.Sprintf("Purchase Order Rejected - %s", data.PONumber)
	return s.send(ctx, data.RequesterEmail, subject, rejectionTmpl, data, nil)
}

// SendIssuedEmail delivers the order to the supplier with the PDF attached.
func (s *SMTPSender) SendIssuedEmail(ctx context.Context, data portssvc.IssuedEmail) error {
	subject := fmt.Sprintf("Purchase Order - %s", data.PONumber)
	var att *attachment
	if len(data.PDFAttachment) > 0 {
		att = &attachment{Name: data.PONumber + ".pdf", Data: data.PDFAttachment}
	}
	return s.send(ctx, data.SupplierEmail, subject, issuedTmpl, data, att)
}

// SendStatusUpdateEmail informs the requester of a status change on their order.
func (s *SMTPSender) SendStatusUpdateEmail(ctx context.Context, data portssvc.StatusUpdateEmail) error {
	subject := fmt.Sprintf("PO Status Update - %s", data.PONumber)
	return s.send(ctx, data.RecipientEmail, subject, statusUpdateTmpl, data, nil)
}

var approvalRequestTmpl = template.Must(template.New("approval_request").Parse(`
<p>Dear {{.ApproverName}},</p>
<p>Purchase order <strong>{{.PONumber}}</strong> requires your approval.</p>
<ul>
	<li>Requested by: {{.RequesterName}}</li>
	<li>Supplier: {{.SupplierName}}</li>
	<li>Total amount: {{.Currency}} {{.TotalAmount}}</li>
</ul>
<p>Please log in to review and act on this purchase order.</p>
`))

var rejectionTmpl = template.Must(template.New("rejection").Parse(`
<p>Dear {{.RequesterName}},</p>
<p>Your purchase order <strong>{{.PONumber}}</strong> has been rejected by {{.RejectedBy}}.</p>
{{if .Remarks}}<p>Remarks: {{.Remarks}}</p>{{end}}
<p>You may review the order details in the system.</p>
`))

var issuedTmpl = template.Must(template.New("issued").Parse(`
<p>Dear {{.SupplierName}},</p>
<p>Please find attached purchase order <strong>{{.PONumber}}</strong>.</p>
<table border="1" cellpadding="4" cellspacing="0">
	<tr><th>Product</th><th>Quantity</th><th>Unit Price</th><th>Total</th></tr>
	{{range .Items}}
	<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.TotalPrice}}</td></tr>
	{{end}}
</table>
<p>Total amount: {{.Currency}} {{.TotalAmount}}</p>
{{if .ExpectedDelivery}}<p>Expected delivery: {{.ExpectedDelivery}}</p>{{end}}
`))

var statusUpdateTmpl = template.Must(template.New("status_update").Parse(`
<p>Dear {{.RecipientName}},</p>
<p>{{.Message}}</p>
<p>Current status: <strong>{{.Status}}</strong></p>
`))
