package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// goos is swappable in tests to exercise every platform branch.
var goos = func() string { return runtime.GOOS }

// OpenBrowser launches the user's default browser at url. The Google
// sign-in flow hands the authorization page to the browser this way
// while the CLI waits on its local callback.
func OpenBrowser(url string) error {
	name, args := browserCommand(goos(), url)
	if name == "" {
		return fmt.Errorf("unsupported platform: %s", goos())
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// browserCommand maps a GOOS value to that platform's URL opener.
func browserCommand(platform, url string) (string, []string) {
	switch platform {
	case "darwin":
		return "open", []string{url}
	case "linux":
		return "xdg-open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", url}
	}
	return "", nil
}
