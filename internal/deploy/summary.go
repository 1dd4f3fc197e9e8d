package deploy

// Derived operator-facing command strings for the deploy/status summaries.

// StatusCommand returns the command text to inspect a unit's state.
func StatusCommand(unit string) string {
	return "systemctl status " + unit
}

// JournalCommand returns the command text to follow a unit's journal.
func JournalCommand(unit string) string {
	return "journalctl -u " + unit + " -f"
}

// TailCommand returns the command text to follow a service's log file.
func TailCommand(logFile string) string {
	return "tail -F " + logFile
}
