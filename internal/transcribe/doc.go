// Package transcribe uploads an audio file to an OpenAI-compatible
// speech-to-text endpoint and returns the SubRip document it produces.
//
// Requests are multipart form posts authenticated with a bearer token.
// Timeouts, HTTP 408/429 and 5xx responses are retried with exponential
// backoff, honouring Retry-After when the server sends it. Other failures are
// returned immediately.
package transcribe
