// Package util provides small shared helpers for callbridge.
package util
