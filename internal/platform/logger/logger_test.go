package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").With("match", "m-1")

	log.Event("CUSTOMER_SERVED", "P1", "served [A,B]")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "CUSTOMER_SERVED", line["event"])
	assert.Equal(t, "P1", line["actor"])
	assert.Equal(t, "m-1", line["match"])
	assert.Equal(t, "served [A,B]", line["message"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("hidden")
	log.Debug("hidden")
	log.Error("boom", errors.New("disk"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, `"error":"disk"`))
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud").Info("visible")
	assert.Contains(t, buf.String(), "visible")
}
