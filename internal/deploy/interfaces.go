package deploy

// SystemdController abstracts systemd service management for testability.
// All methods that modify state must be idempotent: repeating an operation
// that is already applied returns nil.
type SystemdController interface {
	// IsAvailable returns true if systemd (systemctl) is available on the system.
	IsAvailable() bool

	// DaemonReload executes systemctl daemon-reload to reload unit file changes.
	DaemonReload() error

	// Enable enables the named unit to start on boot.
	Enable(unit string) error

	// Disable disables the named unit from starting on boot.
	Disable(unit string) error

	// Stop stops the named unit. Returns nil if the unit is not running.
	Stop(unit string) error

	// Restart starts or restarts the named unit.
	Restart(unit string) error

	// IsActive returns true if the named unit is currently running.
	IsActive(unit string) bool
}

// RootChecker abstracts privilege checking for testability.
type RootChecker interface {
	// IsRoot returns true if the current process has root privileges.
	IsRoot() bool
}

// Account identifies a system user account.
type Account struct {
	UID int
	GID int
}

// UserLookup abstracts the system account database for testability.
type UserLookup interface {
	// Lookup resolves an account name to its uid/gid. A nonexistent
	// account returns an error.
	Lookup(name string) (Account, error)
}

// CommandRunner abstracts external command execution (pip, restorecon) for
// testability.
type CommandRunner interface {
	// LookPath reports the full path of an executable on PATH, or an
	// error when it is not installed.
	LookPath(name string) (string, error)

	// Run executes a command and returns its combined output.
	Run(name string, args ...string) ([]byte, error)
}
