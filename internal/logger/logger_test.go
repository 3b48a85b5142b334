package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	assert.Empty(t, buf.String())

	Error("always visible: %s", "boom")
	assert.Contains(t, buf.String(), "[ERROR] always visible: boom")

	buf.Reset()
	SetVerbose(true)
	defer SetVerbose(false)
	assert.True(t, IsVerbose())

	Debug("now shown %d", 2)
	Info("info line")
	Warn("warn line")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] now shown 2")
	assert.Contains(t, out, "[INFO] info line")
	assert.Contains(t, out, "[WARN] warn line")
}
