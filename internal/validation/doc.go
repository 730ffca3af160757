// Package validation provides input validation for callbridge handlers
// and configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used for request bodies; the programmatic validator serves config checks.
//
// # Struct Tag Validation
//
//	type SpeakTextRequest struct {
//	    CallSID string `json:"callSid" validate:"required"`
//	    Text    string `json:"text" validate:"required,max=4096"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("account_sid", cfg.AccountSID)
//	err := v.Validate()
package validation
