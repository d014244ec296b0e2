package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_HasTwilio(t *testing.T) {
	tests := []struct {
		name string
		conf Config
		want bool
	}{
		{name: "all set", conf: Config{TwilioAccountSid: "AC1", TwilioAuthToken: "t", TwilioFromNumber: "+14155238886"}, want: true},
		{name: "no token", conf: Config{TwilioAccountSid: "AC1", TwilioFromNumber: "+14155238886"}},
		{name: "bad sender", conf: Config{TwilioAccountSid: "AC1", TwilioAuthToken: "t", TwilioFromNumber: "n/a"}},
		{name: "nothing set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conf.HasTwilio())
		})
	}
}
