// Package config provides configuration loading and validation for
// callbridge.
//
// It uses Viper to load configuration from a config.yml next to the
// binary's cmd directory, layered with .env files and environment
// variables. Environment variables override file values using
// underscore-separated paths (e.g. TELEPHONY_AUTH_TOKEN).
package config
