package telephony

import (
	"net/url"
	"strings"

	"github.com/skillsenselab/callbridge/internal/validation"
)

// Speak strategy modes. One strategy is selected per deployment.
const (
	// ModeConference joins the far party into a conference at answer time;
	// speaking places a companion call into the same conference.
	ModeConference = "conference"
	// ModeRedirect keeps the far party on a plain call; speaking redirects
	// the live call to a say-then-resume instruction document.
	ModeRedirect = "redirect"
)

// Callback paths the provider is asked to post to. The HTTP surface
// registers its webhook and instruction handlers on the same paths.
const (
	PathAnswer           = "/twiml/answer"
	PathSay              = "/twiml/say"
	PathConferenceSpeak  = "/twiml/conference-speak"
	PathCallStatus       = "/webhook/call-status"
	PathTranscription    = "/webhook/recording-transcription"
	PathConferenceEvents = "/webhook/conference-events"
)

// Config is the telephony section of the application configuration.
type Config struct {
	// AccountSID and AuthToken authenticate against the provider REST API.
	AccountSID string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string `yaml:"auth_token" mapstructure:"auth_token"`
	// FromNumber is the caller id for outbound calls, in E.164 form.
	FromNumber string `yaml:"from_number" mapstructure:"from_number"`
	// APIBaseURL is the provider REST API root.
	APIBaseURL string `yaml:"api_base_url" mapstructure:"api_base_url"`
	// CallbackBaseURL is the publicly reachable base URL of this service,
	// used to build the webhook and instruction document URLs the provider
	// fetches. Must be reachable from the provider's network.
	CallbackBaseURL string `yaml:"callback_base_url" mapstructure:"callback_base_url"`
	// Mode selects the speak strategy: ModeConference or ModeRedirect.
	Mode string `yaml:"mode" mapstructure:"mode"`
	// Voice and Language configure synthesized speech in instruction
	// documents.
	Voice    string `yaml:"voice" mapstructure:"voice"`
	Language string `yaml:"language" mapstructure:"language"`
	// VerifySignatures enables webhook signature verification.
	VerifySignatures bool `yaml:"verify_signatures" mapstructure:"verify_signatures"`
	// Timeout is the per-request timeout for provider API calls, in seconds.
	Timeout int `yaml:"timeout" mapstructure:"timeout"`
	// RequestsPerSecond and Burst bound the outbound request rate to the
	// provider API.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://api.twilio.com"
	}
	if c.Mode == "" {
		c.Mode = ModeConference
	}
	if c.Voice == "" {
		c.Voice = "alice"
	}
	if c.Language == "" {
		c.Language = "en-US"
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst == 0 {
		c.Burst = 20
	}
}

// Validate checks that the configuration is usable. Problems are collected
// rather than returned one at a time so a fresh deployment sees everything
// that is missing at once.
func (c *Config) Validate() error {
	v := validation.New()
	v.Required("telephony.account_sid", c.AccountSID)
	v.Required("telephony.auth_token", c.AuthToken)
	v.Required("telephony.from_number", c.FromNumber)
	v.Required("telephony.callback_base_url", c.CallbackBaseURL)
	v.Required("telephony.mode", c.Mode)
	v.OneOf("telephony.mode", c.Mode, []string{ModeConference, ModeRedirect})

	if c.CallbackBaseURL != "" {
		u, err := url.Parse(c.CallbackBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.AddError("telephony.callback_base_url", "must be an absolute URL")
		}
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// callbackURL joins path and params onto CallbackBaseURL.
func (c *Config) callbackURL(path string, params url.Values) string {
	base := strings.TrimRight(c.CallbackBaseURL, "/")
	u := base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// AnswerURL returns the answer instruction document URL for a new call.
// The conference name rides along as a query parameter so the document can
// join the called party into the right conference.
func (c *Config) AnswerURL(conference string) string {
	params := url.Values{}
	if conference != "" {
		params.Set("conference", conference)
	}
	return c.callbackURL(PathAnswer, params)
}

// AnswerResumeURL returns the answer document URL with the greeting
// suppressed, used to resume listening after a say or a completed
// recording chunk.
func (c *Config) AnswerResumeURL() string {
	return c.callbackURL(PathAnswer, url.Values{"greeted": {"1"}})
}

// SayURL returns the say-then-resume instruction document URL that speaks
// text into a redirected call.
func (c *Config) SayURL(text string) string {
	return c.callbackURL(PathSay, url.Values{"text": {text}})
}

// ConferenceSpeakURL returns the companion-call instruction document URL
// that speaks text into the named conference.
func (c *Config) ConferenceSpeakURL(conference, text string) string {
	return c.callbackURL(PathConferenceSpeak, url.Values{
		"conference": {conference},
		"text":       {text},
	})
}

// StatusCallbackURL returns the URL call status webhooks are posted to.
func (c *Config) StatusCallbackURL() string {
	return c.callbackURL(PathCallStatus, nil)
}

// TranscriptionCallbackURL returns the URL transcription webhooks are
// posted to.
func (c *Config) TranscriptionCallbackURL() string {
	return c.callbackURL(PathTranscription, nil)
}

// ConferenceEventsURL returns the URL conference participant events are
// posted to.
func (c *Config) ConferenceEventsURL() string {
	return c.callbackURL(PathConferenceEvents, nil)
}
