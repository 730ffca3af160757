package api

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
)

// ComputeSignature returns the provider's webhook signature for a
// request: base64(HMAC-SHA1(authToken, url + sorted form params)).
// The URL is the full public URL the provider requested, including any
// query string; form params are the POST body fields, appended as
// key+value in byte order of the keys.
func ComputeSignature(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		mac.Write([]byte(k))
		for _, v := range form[k] {
			mac.Write([]byte(v))
		}
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature reports whether signature matches the expected
// signature for the request. Comparison is constant time.
func ValidateSignature(authToken, requestURL string, form url.Values, signature string) bool {
	expected := ComputeSignature(authToken, requestURL, form)
	return hmac.Equal([]byte(expected), []byte(signature))
}
