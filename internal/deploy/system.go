package deploy

import (
	"fmt"
	"os/exec"
	"os/user"
	"strconv"
)

// realUserLookup implements UserLookup against the system account database.
type realUserLookup struct{}

// NewUserLookup returns a UserLookup backed by the system account database.
func NewUserLookup() UserLookup {
	return &realUserLookup{}
}

func (l *realUserLookup) Lookup(name string) (Account, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Account{}, fmt.Errorf("deploy: lookup user %q: %w", name, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Account{}, fmt.Errorf("deploy: parse uid %q for user %q: %w", u.Uid, name, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Account{}, fmt.Errorf("deploy: parse gid %q for user %q: %w", u.Gid, name, err)
	}
	return Account{UID: uid, GID: gid}, nil
}

// realCommandRunner implements CommandRunner using os/exec.
type realCommandRunner struct{}

// NewCommandRunner returns a CommandRunner that executes real commands.
func NewCommandRunner() CommandRunner {
	return &realCommandRunner{}
}

func (r *realCommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *realCommandRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
