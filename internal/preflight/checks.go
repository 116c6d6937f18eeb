package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"relief/internal/api"
)

const serverCheckTimeout = 5 * time.Second

// ServerProber reads the service's version report.
type ServerProber interface {
	ServerInfo(ctx context.Context) (api.ServerInfo, error)
}

// CheckServer verifies that the conversion service answers its version
// endpoint. It uses a 5-second timeout and a single attempt.
func CheckServer(ctx context.Context, baseURL string, prober ServerProber) Result {
	const name = "Conversion server"

	checkCtx, cancel := context.WithTimeout(ctx, serverCheckTimeout)
	defer cancel()

	info, err := prober.ServerInfo(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", baseURL, summarizeServerError(err))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (api %s, frontend %s)", baseURL, orUnknown(info.APIVersion), orUnknown(info.FrontendVersion))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeServerError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (server unreachable)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("unreachable (%v)", opErr.Err)
	}
	return err.Error()
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
