package notifier

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/edutrack/edutrack/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"

	defaultAPIFunc = sendgrid.MakeRequestWithContext
	apiFunc        = defaultAPIFunc // mockable
)

// sendgridNotifier e-mails parents through SendGrid.
type sendgridNotifier struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ core.Notifier = (*sendgridNotifier)(nil)

func NewSendgridNotifier(conf *core.Config) core.Notifier {
	from := conf.DefaultFromEmail()
	return &sendgridNotifier{
		key:        conf.SendgridApiKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

func (svc sendgridNotifier) prepare(n core.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + n.Subject
	p.AddTos(sgmail.NewEmail(n.To.Name, n.To.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", n.Body))
	return m
}

func (svc sendgridNotifier) Notify(ctx context.Context, n core.Notification) error {
	if err := validate(n); err != nil {
		return err
	}
	if n.To.Email == "" {
		return ErrNoEmail
	}

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(n))

	res, err := apiFunc(ctx, req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}
