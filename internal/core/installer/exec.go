package installer

import (
	"os"
	"os/exec"
	"path/filepath"
)

// resolveExecutable finds the agentshare binary to reference from platform
// configs. PATH wins; common install locations are fallbacks so configs
// written before the shell picks up a fresh install still work.
func resolveExecutable() string {
	if p, err := exec.LookPath("agentshare"); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	home, err := os.UserHomeDir()
	if err == nil {
		for _, candidate := range []string{
			filepath.Join(home, ".local", "bin", "agentshare"),
			"/usr/local/bin/agentshare",
		} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return "agentshare"
}
