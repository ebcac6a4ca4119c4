// Package api holds the HTTP handlers of the wildlife API: request decoding
// and validation, translation of service errors into status codes, and the
// JSON response envelopes the frontend expects.
package api
