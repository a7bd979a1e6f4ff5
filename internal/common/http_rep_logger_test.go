package common

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"amonic/skydesk/internal/logging"
)

func TestRedactJSON(t *testing.T) {
	out := RedactJSON([]byte(`{"email":"a@b.c","password":"hunter2"}`))
	var fields map[string]string
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "a@b.c", fields["email"])
	assert.Equal(t, "[redacted]", fields["password"])

	plain := []byte(`[1,2,3]`)
	assert.Equal(t, plain, RedactJSON(plain))

	untouched := []byte(`{"confirmed":false}`)
	assert.Equal(t, untouched, RedactJSON(untouched))
}

func TestLogHTTPRequestRedactsAndKeepsBody(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logging.GetLogger()
	logging.SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { logging.SetLogger(prev) })

	body := `{"email":"a@b.c","password":"hunter2"}`
	req, err := http.NewRequest(http.MethodPost, "http://backend.test/api/token/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret-token")

	LogHTTPRequest(req)

	entries := logs.FilterMessage("Backend request").All()
	require.Len(t, entries, 1)
	dump, _ := entries[0].ContextMap()["dump"].(string)
	assert.Contains(t, dump, "/api/token/")
	assert.NotContains(t, dump, "hunter2")
	assert.Contains(t, dump, `"password":"[redacted]"`)
	assert.NotContains(t, dump, "secret-token")

	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
}
