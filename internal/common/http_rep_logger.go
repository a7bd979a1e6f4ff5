package common

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"

	"amonic/skydesk/internal/logging"
)

var redactedFields = []string{"password", "access", "refresh"}

// LogHTTPRequest dumps an outgoing backend request at debug level. The
// bearer token and credential fields of a JSON body are redacted; the
// request body is left readable for the caller.
func LogHTTPRequest(req *http.Request) {
	var bodyCopy []byte
	if req.Body != nil {
		bodyCopy, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyCopy))
	}

	clone := req.Clone(req.Context())
	if clone.Header.Get("Authorization") != "" {
		clone.Header.Set("Authorization", "Bearer [redacted]")
	}
	if bodyCopy != nil {
		redacted := RedactJSON(bodyCopy)
		clone.Body = io.NopCloser(bytes.NewReader(redacted))
		clone.ContentLength = int64(len(redacted))
		clone.Header.Del("Content-Length")
	}

	dump, err := httputil.DumpRequestOut(clone, true)
	if err != nil {
		logging.Debug("Failed to dump backend request", "error", err)
	} else {
		logging.Debug("Backend request", "dump", string(dump))
	}
}

// RedactJSON masks credential fields of a JSON object. Anything that is not
// a JSON object is returned unchanged.
func RedactJSON(body []byte) []byte {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	changed := false
	for _, k := range redactedFields {
		if _, ok := fields[k]; ok {
			fields[k] = "[redacted]"
			changed = true
		}
	}
	if !changed {
		return body
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return out
}
