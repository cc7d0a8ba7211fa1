// Package auth implements the Bybit v5 HMAC signing scheme shared by signed REST
// calls and private stream authentication.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// RealtimeExpiry is how far in the future a realtime auth signature stays valid.
const RealtimeExpiry = 10 * time.Second

const realtimePrefix = "GET/realtime"

// Sign returns the lower-case hex HMAC-SHA256 of message keyed with secret.
func Sign(secret, message string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// Millis returns t as milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// RESTPayload builds the canonical string signed for a REST call:
// timestamp + api key + recv window + serialized params, without separators.
func RESTPayload(timestamp int64, apiKey string, recvWindow int64, params string) string {
	ts := strconv.FormatInt(timestamp, 10)
	rw := strconv.FormatInt(recvWindow, 10)

	buf := make([]byte, 0, len(ts)+len(apiKey)+len(rw)+len(params))
	buf = append(buf, ts...)
	buf = append(buf, apiKey...)
	buf = append(buf, rw...)
	buf = append(buf, params...)
	return string(buf)
}

// RealtimePayload builds the canonical string signed for stream authentication.
func RealtimePayload(expires int64) string {
	return realtimePrefix + strconv.FormatInt(expires, 10)
}

// AuthArgs returns the three arguments of an auth operation: api key, expiry
// and signature. The expiry is now + RealtimeExpiry in milliseconds.
func AuthArgs(apiKey, secret string, now time.Time) []string {
	expires := Millis(now.Add(RealtimeExpiry))
	return []string{
		apiKey,
		strconv.FormatInt(expires, 10),
		Sign(secret, RealtimePayload(expires)),
	}
}
