package telephony

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// TwiML builds provider instruction documents. All text content and
// attribute values are XML-escaped before they reach the markup; spoken
// text is caller-supplied, so unescaped interpolation would let a caller
// inject control verbs into the document.
type TwiML struct {
	verbs strings.Builder
}

// NewTwiML returns an empty instruction document builder.
func NewTwiML() *TwiML {
	return &TwiML{}
}

// Say speaks text with the given synthesized voice and language. Empty
// voice or language fall back to the provider defaults.
func (t *TwiML) Say(text, voice, language string) *TwiML {
	t.verbs.WriteString("<Say")
	t.attr("voice", voice)
	t.attr("language", language)
	t.verbs.WriteString(">")
	t.verbs.WriteString(escapeXML(text))
	t.verbs.WriteString("</Say>")
	return t
}

// Pause waits silently for the given number of seconds.
func (t *TwiML) Pause(seconds int) *TwiML {
	t.verbs.WriteString(`<Pause length="`)
	t.verbs.WriteString(strconv.Itoa(seconds))
	t.verbs.WriteString(`"/>`)
	return t
}

// Redirect transfers control of the call to the document at url.
func (t *TwiML) Redirect(url string) *TwiML {
	t.verbs.WriteString(`<Redirect method="POST">`)
	t.verbs.WriteString(escapeXML(url))
	t.verbs.WriteString("</Redirect>")
	return t
}

// Hangup ends the call.
func (t *TwiML) Hangup() *TwiML {
	t.verbs.WriteString("<Hangup/>")
	return t
}

// RecordOptions configures a Record verb.
type RecordOptions struct {
	// TranscribeCallback is the URL the provider posts the transcription
	// to once the recording is processed. Empty disables transcription.
	TranscribeCallback string
	// Timeout is the seconds of silence that end the recording.
	Timeout int
	// MaxLength caps the recording length in seconds.
	MaxLength int
	// PlayBeep plays a beep before recording starts.
	PlayBeep bool
}

// Record captures the far party's speech and, when a transcribe callback
// is set, asks the provider to transcribe it.
func (t *TwiML) Record(opts RecordOptions) *TwiML {
	t.verbs.WriteString("<Record")
	if opts.TranscribeCallback != "" {
		t.attr("transcribe", "true")
		t.attr("transcribeCallback", opts.TranscribeCallback)
	}
	if opts.Timeout > 0 {
		t.attr("timeout", strconv.Itoa(opts.Timeout))
	}
	if opts.MaxLength > 0 {
		t.attr("maxLength", strconv.Itoa(opts.MaxLength))
	}
	t.attr("playBeep", strconv.FormatBool(opts.PlayBeep))
	t.verbs.WriteString("/>")
	return t
}

// ConferenceOptions configures a Dial/Conference verb.
type ConferenceOptions struct {
	// StartConferenceOnEnter starts the conference when this participant
	// joins rather than waiting for a moderator.
	StartConferenceOnEnter bool
	// EndConferenceOnExit tears the conference down when this participant
	// leaves.
	EndConferenceOnExit bool
	// Record records the conference from the start.
	Record bool
	// StatusCallback is the URL participant join/leave events are posted to.
	StatusCallback string
}

// DialConference joins the call into the named conference.
func (t *TwiML) DialConference(name string, opts ConferenceOptions) *TwiML {
	t.verbs.WriteString("<Dial><Conference")
	t.attr("startConferenceOnEnter", strconv.FormatBool(opts.StartConferenceOnEnter))
	t.attr("endConferenceOnExit", strconv.FormatBool(opts.EndConferenceOnExit))
	if opts.Record {
		t.attr("record", "record-from-start")
	}
	if opts.StatusCallback != "" {
		t.attr("statusCallback", opts.StatusCallback)
		t.attr("statusCallbackEvent", "start end join leave")
	}
	t.verbs.WriteString(">")
	t.verbs.WriteString(escapeXML(name))
	t.verbs.WriteString("</Conference></Dial>")
	return t
}

// String renders the complete instruction document.
func (t *TwiML) String() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><Response>%s</Response>`, t.verbs.String())
}

// attr appends an escaped attribute, skipping empty values.
func (t *TwiML) attr(name, value string) {
	if value == "" {
		return
	}
	t.verbs.WriteString(" ")
	t.verbs.WriteString(name)
	t.verbs.WriteString(`="`)
	t.verbs.WriteString(escapeXML(value))
	t.verbs.WriteString(`"`)
}

// escapeXML escapes text for safe inclusion in markup content and
// attribute values. Covers &, <, >, " and '.
func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText on a bytes.Buffer cannot fail.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
