package build

import (
	"io"
	"sort"
	"sync"

	"github.com/btcsuite/btclog/v2"
)

// NewConsoleHandler returns the handler writing to w that the config asks
// for, or nil if console logging is disabled.
func NewConsoleHandler(cfg *LogConfig, w io.Writer) btclog.Handler {
	if cfg.Console.Disable {
		return nil
	}

	opts := cfg.Console.HandlerOptions()
	if cfg.Console.Style {
		opts = append(opts, styledHandlerOptions()...)
	}

	return btclog.NewDefaultHandler(w, opts...)
}

// SubLoggerManager hands out subsystem loggers sharing one handler and keeps
// track of them so their levels can be changed later.
type SubLoggerManager struct {
	mu sync.Mutex

	handler btclog.Handler
	loggers SubLoggers
}

// A compile time check to ensure SubLoggerManager implements the
// LeveledSubLogger interface.
var _ LeveledSubLogger = (*SubLoggerManager)(nil)

// NewSubLoggerManager creates a manager writing through handler. A nil
// handler makes every logger it creates disabled.
func NewSubLoggerManager(handler btclog.Handler) *SubLoggerManager {
	return &SubLoggerManager{
		handler: handler,
		loggers: make(SubLoggers),
	}
}

// GenSubLogger creates a logger for subsystem and registers it with the
// manager. It has the signature NewSubLogger expects.
func (m *SubLoggerManager) GenSubLogger(subsystem string) btclog.Logger {
	logger := btclog.Disabled
	if m.handler != nil {
		logger = btclog.NewSLogger(m.handler.SubSystem(subsystem))
	}

	m.RegisterSubLogger(subsystem, logger)

	return logger
}

// RegisterSubLogger adds a logger under subsystem.
func (m *SubLoggerManager) RegisterSubLogger(subsystem string,
	logger btclog.Logger) {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.loggers[subsystem] = logger
}

// SubLoggers returns the map of all registered subsystem loggers.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (m *SubLoggerManager) SubLoggers() SubLoggers {
	m.mu.Lock()
	defer m.mu.Unlock()

	loggers := make(SubLoggers, len(m.loggers))
	for k, v := range m.loggers {
		loggers[k] = v
	}

	return loggers
}

// SupportedSubsystems returns a sorted slice of the supported subsystems.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (m *SubLoggerManager) SupportedSubsystems() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	subsystems := make([]string, 0, len(m.loggers))
	for subsysID := range m.loggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)

	return subsystems
}

// SetLogLevel sets the logging level of one subsystem. Unknown subsystems
// and levels are ignored.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (m *SubLoggerManager) SetLogLevel(subsystemID string, logLevel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger, ok := m.loggers[subsystemID]
	if !ok {
		return
	}

	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
//
// NOTE: This is part of the LeveledSubLogger interface.
func (m *SubLoggerManager) SetLogLevels(logLevel string) {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, logger := range m.loggers {
		logger.SetLevel(level)
	}
}
