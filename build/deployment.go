package build

// DeploymentType selects how ciphertool and its packages are compiled. The
// dev build tag picks Development.
type DeploymentType byte

const (
	// Development builds let NewSubLogger write straight to stdout when
	// the stdlog build tag is also set, so package tests can log without
	// a SubLoggerManager.
	Development DeploymentType = iota

	// Production builds always route subsystem loggers through the
	// manager the binary installs.
	Production
)

// String returns the name reported in the version banner.
func (b DeploymentType) String() string {
	switch b {
	case Development:
		return "development"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}
