package frpc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ResolveBinaryPath picks the frpc executable: an explicit path wins, then a
// binary embedded at build time (extracted under cacheDir), then frpc from PATH.
func ResolveBinaryPath(userPath, cacheDir string) (string, error) {
	if userPath != "" {
		return userPath, nil
	}
	name, data, ok := embeddedBinary()
	if !ok {
		return binaryName(runtime.GOOS), nil
	}
	dst := filepath.Join(cacheDir, "bin", name)
	if err := extractBinary(dst, data); err != nil {
		return "", fmt.Errorf("extract embedded frpc: %w", err)
	}
	return dst, nil
}

func binaryName(goos string) string {
	if goos == "windows" {
		return "frpc.exe"
	}
	return "frpc"
}

// extractBinary makes dst an executable copy of data. A matching file is
// left alone so a running frpc is never replaced under itself.
func extractBinary(dst string, data []byte) error {
	if info, err := os.Stat(dst); err == nil && info.Size() == int64(len(data)) {
		if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, data) {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp := dst + ".new"
	if err := os.WriteFile(tmp, data, 0o755); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
