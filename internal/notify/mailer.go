package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

//go:embed templates/signature_request.html
var templateFiles embed.FS

var signatureTemplate = template.Must(template.ParseFS(templateFiles, "templates/signature_request.html"))

type signatureView struct {
	SupervisorName   string
	SubmitterName    string
	Name             string
	Date             string
	StartTime        string
	EndTime          string
	Location         string
	StudentEmail     string
	SignatureFormURL string
}

// SignatureMailer renders signature requests and hands them to a Sender.
// It implements domain.SignatureNotifier.
type SignatureMailer struct {
	sender  Sender
	baseURL string
}

// NewSignatureMailer constructs a SignatureMailer. baseURL is the origin serving signature-form.html.
func NewSignatureMailer(sender Sender, baseURL string) *SignatureMailer {
	return &SignatureMailer{sender: sender, baseURL: strings.TrimRight(baseURL, "/")}
}

// NotifySignatureRequest implements domain.SignatureNotifier.
func (m *SignatureMailer) NotifySignatureRequest(ctx context.Context, notice domain.SignatureRequestNotice) error {
	email, err := m.Render(notice)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, email)
}

// Render builds the email without sending it.
func (m *SignatureMailer) Render(notice domain.SignatureRequestNotice) (Email, error) {
	view := signatureView{
		SupervisorName:   notice.SupervisorName,
		SubmitterName:    notice.SubmitterName,
		Name:             notice.Activity.Name,
		Date:             notice.Activity.Date,
		StartTime:        notice.Activity.StartTime,
		EndTime:          notice.Activity.EndTime,
		Location:         notice.Activity.Location,
		StudentEmail:     notice.SubmitterEmail,
		SignatureFormURL: m.SignatureURL(notice.Token),
	}

	var body bytes.Buffer
	if err := signatureTemplate.Execute(&body, view); err != nil {
		return Email{}, fmt.Errorf("notify: render signature request: %w", err)
	}

	return Email{
		To:      notice.SupervisorEmail,
		Subject: "Signature Request for Activity: " + notice.Activity.Name,
		HTML:    body.String(),
	}, nil
}

// SignatureURL is the link a supervisor follows to sign.
func (m *SignatureMailer) SignatureURL(token string) string {
	return m.baseURL + "/signature-form.html?token=" + url.QueryEscape(token)
}
