package build

import (
	"bytes"
	"context"
	"testing"

	"github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SubLoggerManager, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Console.NoTimestamps = true

	m := NewSubLoggerManager(NewConsoleHandler(cfg, &buf))
	for _, s := range []string{"CIPH", "KEYF", "MNTR"} {
		m.GenSubLogger(s)
	}

	return m, &buf
}

// TestParseAndSetDebugLevels covers global and per subsystem levels and the
// rejection cases.
func TestParseAndSetDebugLevels(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	loggers := m.SubLoggers()

	require.NoError(t, ParseAndSetDebugLevels("debug", m))
	for _, l := range loggers {
		require.Equal(t, btclog.LevelDebug, l.Level())
	}

	require.NoError(t, ParseAndSetDebugLevels("info,CIPH=trace", m))
	require.Equal(t, btclog.LevelTrace, loggers["CIPH"].Level())
	require.Equal(t, btclog.LevelInfo, loggers["KEYF"].Level())

	require.NoError(t, ParseAndSetDebugLevels("KEYF=off", m))
	require.Equal(t, btclog.LevelOff, loggers["KEYF"].Level())

	bad := []string{
		"loud", "info,CIPH", "info,CIPH=trace=x", "info,NOPE=debug",
		"info,CIPH=loud",
	}
	for _, level := range bad {
		require.Error(t, ParseAndSetDebugLevels(level, m), level)
	}

	require.Equal(t, []string{"CIPH", "KEYF", "MNTR"},
		m.SupportedSubsystems())
}

// TestSubLoggerOutput checks loggers write through the shared handler with
// their subsystem tag.
func TestSubLoggerOutput(t *testing.T) {
	t.Parallel()

	m, buf := newTestManager(t)
	m.SetLogLevels("info")

	log := m.SubLoggers()["CIPH"]
	log.Debugf("hidden")
	log.Infof("registered %d ciphers", 24)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "CIPH")
	require.Contains(t, buf.String(), "registered 24 ciphers")
}

// TestDisabledConsole checks a disabled console gives disabled loggers.
func TestDisabledConsole(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	cfg.Console.Disable = true

	var buf bytes.Buffer
	h := NewConsoleHandler(cfg, &buf)
	require.Nil(t, h)

	m := NewSubLoggerManager(h)
	log := m.GenSubLogger("CIPH")
	log.Errorf("nothing")
	require.Zero(t, buf.Len())
}

// TestNewSubLoggerUsesGenerator checks NewSubLogger defers to the given
// constructor in the default configuration.
func TestNewSubLoggerUsesGenerator(t *testing.T) {
	t.Parallel()

	if LoggingType != LogTypeDefault {
		t.Skip("non default logging build")
	}

	m, _ := newTestManager(t)
	logger := NewSubLogger("CTOL", m.GenSubLogger)
	require.Contains(t, m.SupportedSubsystems(), "CTOL")
	require.Equal(t, m.SubLoggers()["CTOL"], logger)

	require.Equal(t, btclog.Disabled, NewSubLogger("CTOL", nil))
}

// TestVersion checks the version string is well formed.
func TestVersion(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.3.0-beta", Version())
	require.Equal(t, "rc1", normalizeVerString("rc_1!"))
	require.NotEmpty(t, GoVersion())
	require.Equal(t, "production", Production.String())
	require.Equal(t, "stdout", LogTypeStdOut.String())
}

// TestStyledConsole checks a styled console wraps the level tag and the
// attribute keys in color codes and still carries the message.
func TestStyledConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Console.NoTimestamps = true
	cfg.Console.Style = true

	m := NewSubLoggerManager(NewConsoleHandler(cfg, &buf))
	log := m.GenSubLogger("CIPH")
	m.SetLogLevels("info")

	log.InfoS(context.Background(), "keyed cipher", "name", "aes-128-cbc")
	log.Warnf("weak key")

	out := buf.String()
	require.Contains(t, out, ansiGreen+"[INF]"+ansiReset)
	require.Contains(t, out, ansiYellow+"[WRN]"+ansiReset)
	require.Contains(t, out, ansiCyan+"name="+ansiReset+"aes-128-cbc")
	require.Contains(t, out, "keyed cipher")
	require.Contains(t, out, "weak key")

	require.Equal(t, "[OFF]", styleLevel(btclog.LevelOff))
	require.Equal(t, ansiFaint+"crypt.go:12"+ansiReset,
		styleCallSite("crypt.go", 12))
}

// TestDeploymentNames checks the names printed in the version banner.
func TestDeploymentNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "development", Development.String())
	require.Equal(t, "production", Production.String())
	require.Equal(t, "unknown", DeploymentType(7).String())
}
