package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// windowsExecutableExtensions parses PATHEXT into a set of lowercase
// extensions with a leading dot.
func windowsExecutableExtensions() map[string]bool {
	exts := map[string]bool{}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, ext := range SplitAndTrim(pathext, ";") {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}

// IsExecutable reports whether the file described by info can be run.
func IsExecutable(path string, info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return windowsExecutableExtensions()[strings.ToLower(filepath.Ext(path))]
	}
	return info.Mode().Perm()&0111 != 0
}

// ResolveExecutable finds binary either as a path or on PATH and checks
// that it is runnable.
func ResolveExecutable(binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", fmt.Errorf("no command configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if !IsExecutable(binary, info) {
			return "", fmt.Errorf("%s is not executable", binary)
		}
		return binary, nil
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
