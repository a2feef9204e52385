package docker

import (
	"fmt"
	"strings"
	"time"
)

// Label keys set on every container the CLI creates. They share the
// "starterpack." prefix so they never collide with labels of other tools.
const (
	// LabelPrefix is the common prefix of all labels.
	LabelPrefix = "starterpack."

	// LabelManagedBy marks containers created by this CLI. Its value is
	// always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelProject is the normalized package name of the project.
	LabelProject = LabelPrefix + "project"

	// LabelTargetDir is the absolute host path that was bind-mounted.
	LabelTargetDir = LabelPrefix + "target-dir"

	// LabelPackageManager is the package manager that ran the install.
	LabelPackageManager = LabelPrefix + "package-manager"

	// LabelCreatedAt is the RFC3339 UTC creation time.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the value of LabelManagedBy.
const ManagedByValue = "create-starterpack"

// InstallSpec describes one containerized install.
type InstallSpec struct {
	// Project is the normalized package name.
	Project string

	// TargetDir is the absolute path of the scaffolded project on the host.
	TargetDir string

	// PackageManager is npm, pnpm, yarn or bun.
	PackageManager string

	// Image is the Node image the install runs in.
	Image string

	// CreatedAt is when the container was created.
	CreatedAt time.Time
}

// BuildLabels returns the labels for the install container of spec.
func BuildLabels(spec InstallSpec) map[string]string {
	return map[string]string{
		LabelManagedBy:      ManagedByValue,
		LabelProject:        spec.Project,
		LabelTargetDir:      spec.TargetDir,
		LabelPackageManager: spec.PackageManager,
		LabelCreatedAt:      spec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels rebuilds an InstallSpec from container labels. Image is not
// stored in a label and stays empty.
func ParseLabels(labels map[string]string) (*InstallSpec, error) {
	required := []string{LabelManagedBy, LabelProject, LabelTargetDir, LabelPackageManager, LabelCreatedAt}
	var missing []string
	for _, key := range required {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("label %s has unexpected value %q", LabelManagedBy, labels[LabelManagedBy])
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid %s label %q: %w", LabelCreatedAt, labels[LabelCreatedAt], err)
	}

	return &InstallSpec{
		Project:        labels[LabelProject],
		TargetDir:      labels[LabelTargetDir],
		PackageManager: labels[LabelPackageManager],
		CreatedAt:      createdAt,
	}, nil
}

// FilterLabels returns the label selector matching managed containers.
func FilterLabels() map[string]string {
	return map[string]string{LabelManagedBy: ManagedByValue}
}
