package docker

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingin/create-starterpack/internal/model"
)

func TestContainerName(t *testing.T) {
	created := time.Unix(1700000000, 0)

	tests := []struct {
		project string
		want    string
	}{
		{"my-app", "starterpack-install-my-app-1700000000"},
		{"my~app", "starterpack-install-my-app-1700000000"},
		{"-leading", "starterpack-install-leading-1700000000"},
		{"", "starterpack-install-project-1700000000"},
		{"~~~", "starterpack-install-project-1700000000"},
	}
	for _, tt := range tests {
		t.Run(tt.project, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainerName(InstallSpec{Project: tt.project, CreatedAt: created}))
		})
	}
}

func TestInstallConfig(t *testing.T) {
	spec := testSpec()
	cfg, hostCfg := installConfig(spec, []string{"pnpm", "install"})

	assert.Equal(t, "node:22-alpine", cfg.Image)
	assert.Equal(t, []string{"pnpm", "install"}, []string(cfg.Cmd))
	assert.Equal(t, WorkspaceDir, cfg.WorkingDir)
	assert.Equal(t, BuildLabels(spec), cfg.Labels)
	assert.Contains(t, cfg.Env, "HOME=/tmp")
	assert.Contains(t, cfg.Env, "COREPACK_ENABLE_DOWNLOAD_PROMPT=0")
	if runtime.GOOS == "linux" {
		assert.NotEmpty(t, cfg.User)
	}

	require.Len(t, hostCfg.Mounts, 1)
	assert.Equal(t, mount.TypeBind, hostCfg.Mounts[0].Type)
	assert.Equal(t, spec.TargetDir, hostCfg.Mounts[0].Source)
	assert.Equal(t, WorkspaceDir, hostCfg.Mounts[0].Target)
}

func TestContainerToInfo(t *testing.T) {
	labels := BuildLabels(testSpec())
	info := containerToInfo(container.Summary{
		ID:     "abc123",
		Names:  []string{"/starterpack-install-my-app-1"},
		State:  "exited",
		Labels: labels,
	})

	assert.Equal(t, model.ContainerInfo{
		ContainerID:   "abc123",
		ContainerName: "starterpack-install-my-app-1",
		Status:        "exited",
		Labels:        labels,
	}, info)

	assert.Empty(t, containerToInfo(container.Summary{ID: "x"}).ContainerName)
}

func TestStaleContainers(t *testing.T) {
	containers := []model.ContainerInfo{
		{ContainerID: "a", Status: "running"},
		{ContainerID: "b", Status: "exited"},
		{ContainerID: "c", Status: "created"},
	}

	stale := StaleContainers(containers)
	require.Len(t, stale, 2)
	assert.Equal(t, "b", stale[0].ContainerID)
	assert.Equal(t, "c", stale[1].ContainerID)
	assert.Empty(t, StaleContainers(nil))
}

func TestDetectUnixSocket(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "docker.sock")
	require.NoError(t, os.WriteFile(present, nil, 0o600))

	host, err := detectUnixSocket([]string{filepath.Join(dir, "missing.sock"), present})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+present, host)

	_, err = detectUnixSocket([]string{filepath.Join(dir, "missing.sock")})
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestClose_NilInner(t *testing.T) {
	assert.NoError(t, (&Client{}).Close())
}
