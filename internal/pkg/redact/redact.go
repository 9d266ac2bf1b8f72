// Package redact provides helpers to avoid exposing secret values in logs.
package redact

import "net/url"

const redactedValue = "***REDACTED***"

// URL returns a loggable form of a webhook URL. Slack webhook URLs carry their
// credential in the path and others in the query string, so everything past
// the host is masked.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return redactedValue
	}
	out := u.Scheme + "://" + u.Host
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" {
		out += "/" + redactedValue
	}
	return out
}
