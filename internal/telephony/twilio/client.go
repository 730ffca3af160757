// Package twilio implements the telephony provider against the Twilio
// Programmable Voice REST API.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/skillsenselab/callbridge/internal/component"
	"github.com/skillsenselab/callbridge/internal/errors"
	"github.com/skillsenselab/callbridge/internal/httpclient"
	"github.com/skillsenselab/callbridge/internal/logger"
	"github.com/skillsenselab/callbridge/internal/resilience"
	"github.com/skillsenselab/callbridge/internal/telephony"
	"github.com/skillsenselab/callbridge/internal/util"
)

const apiVersion = "2010-04-01"

// Error code Twilio returns when updating a call that already ended.
const codeCallNotInProgress = 21220

// Client talks to the Twilio REST API. Requests ride through the shared
// HTTP client's rate limiter and circuit breaker; nothing is retried
// automatically because a repeated speak or call command is a user-visible
// duplicate.
type Client struct {
	cfg  *telephony.Config
	http *httpclient.Client
	log  *logger.Logger
}

var (
	_ telephony.Provider    = (*Client)(nil)
	_ component.Component   = (*Client)(nil)
	_ component.Describable = (*Client)(nil)
)

// New creates a Twilio client from the telephony configuration.
func New(cfg *telephony.Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        time.Duration(cfg.Timeout) * time.Second,
		Auth:           httpclient.BasicAuth(cfg.AccountSID, cfg.AuthToken),
		CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("twilio"),
		RateLimiter: &resilience.RateLimiterConfig{
			Name:  "twilio",
			Rate:  cfg.RequestsPerSecond,
			Burst: cfg.Burst,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating twilio http client: %w", err)
	}

	return &Client{
		cfg:  cfg,
		http: hc,
		log:  log.WithComponent("twilio"),
	}, nil
}

// callResource is the subset of Twilio's call resource this system reads.
type callResource struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
	From   string `json:"from"`
}

// apiError is Twilio's error response body.
type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// PlaceCall creates an outbound call that fetches the answer instruction
// document on connect and posts status webhooks for every lifecycle event.
func (c *Client) PlaceCall(ctx context.Context, req telephony.PlaceCallRequest) (*telephony.CallHandle, error) {
	form := url.Values{
		"To":                   {req.To},
		"From":                 {c.cfg.FromNumber},
		"Url":                  {c.cfg.AnswerURL(req.ConferenceName)},
		"Method":               {"POST"},
		"StatusCallback":       {c.cfg.StatusCallbackURL()},
		"StatusCallbackMethod": {"POST"},
		"StatusCallbackEvent":  {"initiated", "ringing", "answered", "completed"},
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.callsPath(),
		Body:   form,
	})
	if err != nil {
		return nil, c.providerError("place call", resp, err)
	}

	var res callResource
	if err := resp.DecodeJSON(&res); err != nil {
		return nil, errors.TelephonyError(0, "unreadable provider response", err)
	}

	status, ok := telephony.MapProviderStatus(res.Status)
	if !ok {
		status = telephony.StatusInitiated
	}

	c.log.Info("call placed", logger.Fields(
		logger.FieldCallSID, res.SID,
		"to", req.To,
		"status", string(status),
	))
	return &telephony.CallHandle{SID: res.SID, Status: status}, nil
}

// RedirectCall swaps the live call onto the instruction document at
// instructionURL.
func (c *Client) RedirectCall(ctx context.Context, callSID, instructionURL string) error {
	form := url.Values{
		"Url":    {instructionURL},
		"Method": {"POST"},
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.callPath(callSID),
		Body:   form,
	})
	if err != nil {
		return c.providerError("redirect call", resp, err)
	}

	c.log.Debug("call redirected", logger.Fields(logger.FieldCallSID, callSID))
	return nil
}

// TerminateCall ends the call. A call that already ended or no longer
// exists at the provider is treated as terminated.
func (c *Client) TerminateCall(ctx context.Context, callSID string) error {
	form := url.Values{
		"Status": {"completed"},
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.callPath(callSID),
		Body:   form,
	})
	if err != nil {
		if c.alreadyTerminated(resp, err) {
			c.log.Debug("call already ended at provider", logger.Fields(logger.FieldCallSID, callSID))
			return nil
		}
		return c.providerError("terminate call", resp, err)
	}

	c.log.Info("call terminated", logger.Fields(logger.FieldCallSID, callSID))
	return nil
}

// CreateConference prepares a conference handle. Twilio conferences are
// ad-hoc: the named conference materializes when the first instruction
// document dials into it, so no API call is needed here and the friendly
// name doubles as the identifier.
func (c *Client) CreateConference(_ context.Context, friendlyName string) (*telephony.SubResource, error) {
	if friendlyName == "" {
		return nil, errors.Validation("conference name must not be empty")
	}
	return &telephony.SubResource{
		SID:          friendlyName,
		FriendlyName: friendlyName,
	}, nil
}

// SpeakIntoConference places a companion call whose instruction document
// speaks text into the conference, and returns the companion call SID.
func (c *Client) SpeakIntoConference(ctx context.Context, conferenceSID, text string) (string, error) {
	form := url.Values{
		"To":     {c.cfg.FromNumber},
		"From":   {c.cfg.FromNumber},
		"Url":    {c.cfg.ConferenceSpeakURL(conferenceSID, text)},
		"Method": {"POST"},
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   c.callsPath(),
		Body:   form,
	})
	if err != nil {
		return "", c.providerError("speak into conference", resp, err)
	}

	var res callResource
	if err := resp.DecodeJSON(&res); err != nil {
		return "", errors.TelephonyError(0, "unreadable provider response", err)
	}

	c.log.Info("companion call placed", logger.Fields(
		logger.FieldCallSID, res.SID,
		"conference", conferenceSID,
	))
	return res.SID, nil
}

func (c *Client) callsPath() string {
	return fmt.Sprintf("/%s/Accounts/%s/Calls.json", apiVersion, c.cfg.AccountSID)
}

func (c *Client) callPath(callSID string) string {
	return fmt.Sprintf("/%s/Accounts/%s/Calls/%s.json", apiVersion, c.cfg.AccountSID, callSID)
}

// alreadyTerminated reports whether a failed terminate means the call is
// gone already: the call resource no longer exists, or Twilio rejects the
// update because the call is not in progress.
func (c *Client) alreadyTerminated(resp *httpclient.Response, err error) bool {
	if httpclient.IsNotFound(err) {
		return true
	}
	if apiErr, ok := c.decodeAPIError(resp); ok {
		return apiErr.Code == codeCallNotInProgress
	}
	return false
}

// providerError converts a failed API call into an AppError carrying the
// provider's own error code and message when the body has them.
func (c *Client) providerError(op string, resp *httpclient.Response, err error) error {
	if apiErr, ok := c.decodeAPIError(resp); ok {
		c.log.Warn("provider rejected request", logger.Fields(
			"op", op,
			"provider_code", apiErr.Code,
			"provider_message", apiErr.Message,
		))
		return errors.TelephonyError(apiErr.Code, apiErr.Message, err)
	}

	c.log.Warn("provider request failed", logger.Fields("op", op, "error", err.Error()))
	return errors.TelephonyError(0, fmt.Sprintf("%s failed", op), err)
}

func (c *Client) decodeAPIError(resp *httpclient.Response) (*apiError, bool) {
	if resp == nil || len(resp.Body) == 0 {
		return nil, false
	}
	var apiErr apiError
	if err := json.Unmarshal(resp.Body, &apiErr); err != nil || apiErr.Message == "" {
		return nil, false
	}
	return &apiErr, true
}

// Name returns the component name.
func (c *Client) Name() string { return "telephony" }

// Start is a no-op; the client holds no connections.
func (c *Client) Start(_ context.Context) error { return nil }

// Stop is a no-op.
func (c *Client) Stop(_ context.Context) error { return nil }

// Health reports degraded while the provider circuit is not closed. The
// rest of the service (webhook ingest, status queries) keeps working, so
// an open circuit does not make the whole process unhealthy.
func (c *Client) Health(_ context.Context) component.Health {
	if state, ok := c.http.CircuitState(); ok && state != resilience.StateClosed {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("provider circuit %s", state),
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: "provider circuit closed",
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
// The account SID is masked so startup output is safe to paste into
// tickets and chat.
func (c *Client) Describe() component.Description {
	return component.Description{
		Name:    "Twilio",
		Type:    "telephony",
		Details: fmt.Sprintf("%s account %s (%s mode)", c.cfg.APIBaseURL, util.MaskSecret(c.cfg.AccountSID, 8), c.cfg.Mode),
	}
}
