package docker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"
)

// ErrDaemonUnavailable is wrapped when no Docker daemon can be reached.
var ErrDaemonUnavailable = errors.New("docker daemon is not available")

// defaultPingTimeout bounds the daemon health check. Docker Desktop on
// macOS can take a few seconds to answer.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker SDK client with socket detection and a health
// check.
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
type Client struct {
	// inner is the Docker SDK client. All API calls go through it.
	inner *client.Client
}

// NewClient creates a Docker client. DOCKER_HOST is used when set;
// otherwise the platform's default socket locations are probed.
func NewClient() (*Client, error) {
	// An explicit DOCKER_HOST wins, as it does for the docker CLI. This
	// covers remote daemons, rootless Docker and Colima.
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	return newClientWithHost(host)
}

// newClientWithHost creates a client bound to host.
func newClientWithHost(host string) (*Client, error) {
	// API version negotiation lets the client talk to older daemons
	// instead of failing on a version mismatch.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client for host %q: %w", host, err)
	}
	return &Client{inner: c}, nil
}

// detectDockerHost returns the Docker host URI for the current platform.
// It checks that the socket exists, not that a daemon is listening; Ping
// does that.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{"/var/run/docker.sock"})

	case "darwin":
		paths := []string{"/var/run/docker.sock"}
		if home, err := os.UserHomeDir(); err == nil {
			// Newer Docker Desktop versions may not create the /var/run link.
			paths = append(paths, home+"/.docker/run/docker.sock")
		}
		return detectUnixSocket(paths)

	case "windows":
		// os.Stat does not work on named pipes, so probe with a dial.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err == nil {
			_ = conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the host URI of the first existing path.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("docker socket not found at any of %v", paths)
}

// Ping checks that the daemon answers within defaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	// Bound the ping separately so a hung daemon does not stall the run
	// before the install even starts.
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	return nil
}

// Close releases the client's resources. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying SDK client.
func (c *Client) Inner() *client.Client {
	return c.inner
}
