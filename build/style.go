package build

import (
	"fmt"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiFaint  = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
)

// levelColors maps each level to the escape sequence its tag is printed
// with.
var levelColors = map[btclogv1.Level]string{
	btclog.LevelTrace:    ansiFaint,
	btclog.LevelDebug:    ansiBlue,
	btclog.LevelInfo:     ansiGreen,
	btclog.LevelWarn:     ansiYellow,
	btclog.LevelError:    ansiRed,
	btclog.LevelCritical: ansiBold + ansiRed,
}

func styleLevel(l btclogv1.Level) string {
	color, ok := levelColors[l]
	if !ok {
		return fmt.Sprintf("[%s]", l)
	}

	return fmt.Sprintf("%s[%s]%s", color, l, ansiReset)
}

func styleCallSite(file string, line int) string {
	return fmt.Sprintf("%s%s:%d%s", ansiFaint, file, line, ansiReset)
}

func styleKey(key string) string {
	return ansiCyan + key + ansiReset
}

// styledHandlerOptions colors the level tag, call site and attribute keys of
// each console line.
func styledHandlerOptions() []btclog.HandlerOption {
	return []btclog.HandlerOption{
		btclog.WithStyledLevel(styleLevel),
		btclog.WithStyledCallSite(styleCallSite),
		btclog.WithStyledKeys(styleKey),
	}
}
