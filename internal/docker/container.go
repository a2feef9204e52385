package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/output"
)

// WorkspaceDir is where the project is mounted inside the install container.
const WorkspaceDir = "/workspace"

// invalidNameChars matches runs of characters Docker rejects in names.
var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// ContainerName returns the name of the install container for spec. Docker
// names allow [a-zA-Z0-9_.-]; anything else becomes "-".
func ContainerName(spec InstallSpec) string {
	project := strings.Trim(invalidNameChars.ReplaceAllString(spec.Project, "-"), "-.")
	if project == "" {
		project = "project"
	}
	// The timestamp keeps names unique when the same project is
	// scaffolded twice in a row.
	return fmt.Sprintf("starterpack-install-%s-%d", project, spec.CreatedAt.Unix())
}

// installConfig builds the create parameters for an install container.
// On Linux the container runs as the invoking user so node_modules is not
// owned by root on the host.
func installConfig(spec InstallSpec, cmd []string) (*container.Config, *container.HostConfig) {
	cfg := &container.Config{
		Image:      spec.Image,
		Cmd:        cmd,
		WorkingDir: WorkspaceDir,
		Labels:     BuildLabels(spec),
		// HOME must be writable: the npm cache, the corepack cache and
		// npx downloads all live below it when the container is not root.
		// COREPACK_ENABLE_DOWNLOAD_PROMPT stops corepack from waiting on a
		// confirmation nobody can answer.
		Env: []string{"CI=true", "HOME=/tmp", "COREPACK_ENABLE_DOWNLOAD_PROMPT=0"},
	}
	// Docker Desktop on macOS and Windows maps bind-mount ownership
	// itself; only Linux needs the explicit user. The install command
	// must therefore never write outside HOME and the workspace.
	if runtime.GOOS == "linux" {
		cfg.User = fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	}

	// The project directory is the only host path the container sees.
	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{{
			Type:   mount.TypeBind,
			Source: spec.TargetDir,
			Target: WorkspaceDir,
		}},
	}
	return cfg, hostCfg
}

// EnsureImage pulls ref unless it is already present locally. Pull
// progress is discarded.
func EnsureImage(ctx context.Context, cli *Client, ref string) error {
	// Any inspect error (usually "not found") falls through to a pull; a
	// real daemon problem surfaces from the pull itself.
	if _, err := cli.Inner().ImageInspect(ctx, ref); err == nil {
		output.Debug("image present", "image", ref)
		return nil
	}

	output.Debug("pulling image", "image", ref)
	rc, err := cli.Inner().ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer func() { _ = rc.Close() }()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	return nil
}

// RunInstall runs cmd in a new container for spec and streams its output
// to stdout and stderr. The container is removed afterwards, also when
// ctx is cancelled. A non-zero exit status is an error.
func RunInstall(ctx context.Context, cli *Client, spec InstallSpec, cmd []string, stdout, stderr io.Writer) error {
	cfg, hostCfg := installConfig(spec, cmd)
	name := ContainerName(spec)

	created, err := cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", name, err)
	}
	output.Debug("created install container", "name", name, "id", shortID(created.ID))

	// Remove the container on every path. An interrupted run still has to
	// clean up, so the removal must not inherit ctx's cancellation.
	defer func() {
		rmCtx := context.WithoutCancel(ctx)
		if err := cli.Inner().ContainerRemove(rmCtx, created.ID, container.RemoveOptions{Force: true}); err != nil {
			output.Warn("failed to remove install container", "name", name, "err", err)
		}
	}()

	// Register the wait before starting so a fast exit is not missed.
	statusCh, errCh := cli.Inner().ContainerWait(ctx, created.ID, container.WaitConditionNextExit)

	if err := cli.Inner().ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}

	// Follow the logs until the container exits. Without a TTY the stream
	// is multiplexed and stdcopy splits it back into stdout and stderr.
	logs, err := cli.Inner().ContainerLogs(ctx, created.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to attach to container %s: %w", name, err)
	}
	_, copyErr := stdcopy.StdCopy(stdout, stderr, logs)
	_ = logs.Close()
	if copyErr != nil && ctx.Err() == nil {
		output.Debug("log stream ended with error", "err", copyErr)
	}

	// The log stream has ended, so the exit status is normally ready.
	select {
	case res := <-statusCh:
		if res.Error != nil {
			return fmt.Errorf("install container %s failed: %s", name, res.Error.Message)
		}
		if res.StatusCode != 0 {
			return fmt.Errorf("install container %s exited with status %d", name, res.StatusCode)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("failed waiting for container %s: %w", name, err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListManagedContainers returns every container, running or not, that
// carries the managed-by label.
func ListManagedContainers(ctx context.Context, cli *Client) ([]model.ContainerInfo, error) {
	// Filtering happens daemon-side so unrelated containers are never
	// transferred.
	args := filters.NewArgs()
	for k, v := range FilterLabels() {
		args.Add("label", k+"="+v)
	}

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}
	return result, nil
}

// RemoveStale removes managed containers that are no longer running,
// left behind by interrupted installs. It returns how many were removed.
func RemoveStale(ctx context.Context, cli *Client) (int, error) {
	containers, err := ListManagedContainers(ctx, cli)
	if err != nil {
		return 0, err
	}

	// Running containers may belong to a concurrent invocation and are
	// left alone.
	removed := 0
	for _, c := range StaleContainers(containers) {
		if err := cli.Inner().ContainerRemove(ctx, c.ContainerID, container.RemoveOptions{Force: true}); err != nil {
			return removed, fmt.Errorf("failed to remove container %s: %w", c.ContainerName, err)
		}
		if spec, err := ParseLabels(c.Labels); err == nil {
			output.Debug("removed stale install container", "name", c.ContainerName, "target", spec.TargetDir)
		}
		removed++
	}
	return removed, nil
}

// StaleContainers filters out running containers.
func StaleContainers(containers []model.ContainerInfo) []model.ContainerInfo {
	var stale []model.ContainerInfo
	for _, c := range containers {
		if c.Status != "running" {
			stale = append(stale, c)
		}
	}
	return stale
}

// containerToInfo maps an API container summary to the domain type. The
// API prefixes names with "/", which is stripped.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Status:        string(c.State),
		Labels:        c.Labels,
	}
}

// shortID returns the 12-character form the docker CLI displays.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
