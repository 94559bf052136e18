package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoVerbose(t *testing.T) {
	tests := []struct {
		name           string
		verbose        bool
		format         string
		args           []interface{}
		expectOutput   bool
		expectedSubstr string
	}{
		{
			name:           "verbose enabled - should output",
			verbose:        true,
			format:         "fetching %s",
			args:           []interface{}{"FQButton"},
			expectOutput:   true,
			expectedSubstr: "fetching FQButton",
		},
		{
			name:         "verbose disabled - should not output",
			verbose:      false,
			format:       "fetching %s",
			args:         []interface{}{"FQButton"},
			expectOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLoggerWithWriter(tt.verbose, false, false, buf)

			logger.InfoVerbose(tt.format, tt.args...)

			if tt.expectOutput {
				assert.Contains(t, buf.String(), tt.expectedSubstr)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestWarningVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(false, false, false, buf)

	logger.WarningVerbose("strategy %s failed", "installed-package")
	assert.Empty(t, buf.String(), "no output when verbose is disabled")

	logger.SetVerbose(true)
	logger.WarningVerbose("strategy %s failed", "installed-package")
	assert.Contains(t, buf.String(), "strategy installed-package failed")
}

func TestNilLogger(t *testing.T) {
	// every method must be safe on a nil receiver
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("info")
		logger.Success("success")
		logger.Warning("warning")
		logger.Error("error")
		logger.Debug("debug")
		logger.InfoVerbose("info verbose")
		logger.WarningVerbose("warning verbose")
		logger.SetVerbose(true)
		logger.SetWriter(&bytes.Buffer{})
		logger.ToolRequest("list-components", nil)
		logger.ToolResponse("list-components", false, 0)
	})
	assert.Nil(t, logger.With("k", "v"))
	assert.False(t, logger.Verbose())
}

func TestLoggerBasicFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(false, false, false, buf)

	tests := []struct {
		name string
		log  func(string, ...interface{})
	}{
		{name: "Info", log: logger.Info},
		{name: "Error", log: logger.Error},
		{name: "Success", log: logger.Success},
		{name: "Warning", log: logger.Warning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("%s message", tt.name)
			assert.Contains(t, buf.String(), tt.name+" message")
		})
	}

	t.Run("Debug verbose enabled", func(t *testing.T) {
		buf.Reset()
		logger.SetVerbose(true)
		logger.Debug("debug message")
		assert.Contains(t, buf.String(), "debug message")
	})

	t.Run("Debug verbose disabled", func(t *testing.T) {
		buf.Reset()
		logger.SetVerbose(false)
		logger.Debug("debug message")
		assert.Empty(t, buf.String())
	})
}

func TestLoggerConstructors(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		logger := NewLogger(true, true, true)
		require.NotNil(t, logger)
		assert.True(t, logger.verbose)
		assert.True(t, logger.useColor)
		assert.True(t, logger.traceMode)
	})

	t.Run("NewLoggerWithWriter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLoggerWithWriter(false, false, false, buf)
		assert.Same(t, buf, logger.writer)
	})
}

func TestSetWriter(t *testing.T) {
	buf1 := &bytes.Buffer{}
	buf2 := &bytes.Buffer{}

	logger := NewLoggerWithWriter(false, false, false, buf1)
	logger.Info("message1")
	assert.Contains(t, buf1.String(), "message1")

	buf1.Reset()
	logger.SetWriter(buf2)
	logger.Info("message2")

	assert.Empty(t, buf1.String(), "buf1 should stay empty after changing writer")
	assert.Contains(t, buf2.String(), "message2")
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(false, false, false, buf)

	logger.With("trace_id", "abc123").Info("tool invoked")

	assert.Contains(t, buf.String(), "tool invoked")
	assert.Contains(t, buf.String(), "abc123")
}

func TestToolTrace(t *testing.T) {
	tests := []struct {
		name      string
		traceMode bool
		expectLog bool
	}{
		{name: "trace enabled", traceMode: true, expectLog: true},
		{name: "trace disabled", traceMode: false, expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLoggerWithWriter(false, false, tt.traceMode, buf)

			logger.ToolRequest("get-component-demo", map[string]interface{}{
				"componentName": "FQButton",
				"token":         "glpat-secret-value",
			})
			logger.ToolResponse("get-component-demo", false, 42)

			out := buf.String()
			if !tt.expectLog {
				assert.Empty(t, out)
				return
			}
			assert.NotContains(t, out, "glpat-secret-value", "credential leaked into log output")
			assert.Contains(t, out, "FQButton")
			assert.Contains(t, out, redacted)
		})
	}
}

func TestRedactArgs(t *testing.T) {
	in := map[string]interface{}{
		"token":         "glpat-xyz",
		"privateToken":  "glpat-abc",
		"componentName": "FQButton",
	}
	out := RedactArgs(in)

	assert.Equal(t, redacted, out["token"])
	assert.Equal(t, redacted, out["privateToken"])
	assert.Equal(t, "FQButton", out["componentName"])
	assert.Equal(t, "glpat-xyz", in["token"], "input must not be modified")

	// a blank token stays visible as blank
	assert.Equal(t, "  ", RedactArgs(map[string]interface{}{"token": "  "})["token"])
	assert.Nil(t, RedactArgs(nil))
}
