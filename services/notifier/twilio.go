package notifier

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/edutrack/edutrack/core"
)

var (
	defaultCreateMessageFunc = func(api *twilioapi.ApiService, params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error) {
		return api.CreateMessage(params)
	}
	createMessageFunc = defaultCreateMessageFunc // mockable
)

// twilioNotifier sends WhatsApp messages to parents through Twilio.
type twilioNotifier struct {
	client *twilio.RestClient
	from   string
}

var _ core.Notifier = (*twilioNotifier)(nil)

func NewTwilioNotifier(conf *core.Config) core.Notifier {
	return &twilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: conf.TwilioAccountSid,
			Password: conf.TwilioAuthToken,
		}),
		from: core.WhatsAppAddress(conf.TwilioFromNumber),
	}
}

func (svc twilioNotifier) Notify(ctx context.Context, n core.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(n); err != nil {
		return err
	}
	to := core.WhatsAppAddress(n.To.Phone)
	if to == "" {
		return ErrNoPhone
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(svc.from)
	params.SetBody(n.Body)

	if _, err := createMessageFunc(svc.client.Api, params); err != nil {
		return errors.Wrap(err, "sending whatsapp message")
	}
	return nil
}
