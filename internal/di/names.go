package di

// AppNames defines the component names used during bootstrap.
type AppNames struct {
	// Core infrastructure
	Config     string
	Logger     string
	HTTPServer string
	EventHub   string

	// Domain
	CallRegistry string
	Telephony    string
	Bridge       string
}

// App contains all component names for the callbridge bootstrap.
var App = AppNames{
	Config:     "config",
	Logger:     "logger",
	HTTPServer: "http_server",
	EventHub:   "event_hub",

	CallRegistry: "call_registry",
	Telephony:    "telephony",
	Bridge:       "bridge",
}
