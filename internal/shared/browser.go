package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand returns the launcher argv for goos.
func browserCommand(goos, target string) ([]string, error) {
	switch goos {
	case "darwin":
		return []string{"open", target}, nil
	case "linux", "freebsd", "openbsd":
		return []string{"xdg-open", target}, nil
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", target}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported platform: %s", ErrServiceUnavailable, goos)
	}
}

// OpenBrowser opens an http(s) URL (an episode page or the local web UI) in the default system browser.
func OpenBrowser(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not an http(s) URL: %q", ErrInvalidInput, target)
	}

	argv, err := browserCommand(getRuntime(), u.String())
	if err != nil {
		return err
	}

	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
