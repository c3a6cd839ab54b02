package fpga

// Logger is an optional logging interface for device operations. It allows
// integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Config holds the device configuration.
type Config struct {
	// Table is the register map the device marshals against.
	Table Table

	// VersionReg names the register the connect handshake reads and
	// compares against its descriptor default.
	VersionReg RegID

	// Logger receives operational logs (optional).
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		Table:      DefaultTable(),
		VersionReg: RegVersion,
		Logger:     noopLogger{},
	}
}

// Option is a functional option for configuring a Device.
type Option func(*Config)

// WithTable replaces the default register map. Use it for FPGA images with
// a different register layout.
func WithTable(t Table) Option {
	return func(c *Config) {
		c.Table = t
	}
}

// WithVersionRegister selects which register the connect handshake checks.
// The register's descriptor default is the expected version value.
func WithVersionRegister(id RegID) Option {
	return func(c *Config) {
		c.VersionReg = id
	}
}

// WithLogger sets a logger for device operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
