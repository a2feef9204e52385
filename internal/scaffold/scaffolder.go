package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codingin/create-starterpack/internal/model"
	"github.com/codingin/create-starterpack/internal/naming"
	"github.com/codingin/create-starterpack/internal/output"
	"github.com/codingin/create-starterpack/internal/template"
	"github.com/spf13/afero"
)

// Confirmer decides whether an existing target directory may be replaced.
// The CLI backs it with an interactive prompt.
type Confirmer interface {
	// ConfirmOverwrite returns true to replace the directory, false to
	// abort. Returning model.ErrUserCancelled also aborts.
	ConfirmOverwrite(ctx context.Context, name string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, name string) (bool, error)

// ConfirmOverwrite calls f.
func (f ConfirmFunc) ConfirmOverwrite(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

// Request holds the parameters of a single scaffold run.
type Request struct {
	// ProjectName is the raw name the user gave. It names the target
	// directory and, normalized, the package.
	ProjectName string

	// TargetDir is where the project is created. Relative paths are
	// resolved against the working directory. Defaults to ProjectName.
	TargetDir string

	// Force replaces an existing target without asking the Confirmer.
	Force bool
}

// Scaffolder runs the scaffold stages against a filesystem.
type Scaffolder struct {
	// FS is the destination filesystem.
	FS afero.Fs

	// Template is the source tree.
	Template fs.FS

	// Mapping restores escaped entry names after the copy.
	Mapping model.RenameMapping

	// Files lists where Token is replaced.
	Files model.PlaceholderFileList

	// Token is the placeholder replaced with the package name.
	Token string

	// Confirmer is asked before an existing target is removed. When nil,
	// an existing target is an error unless Request.Force is set.
	Confirmer Confirmer

	// BeforeCopy, when set, is called with the absolute target once the
	// target is cleared and right before the template is copied. It is
	// not called when the run is cancelled or rejected earlier.
	BeforeCopy func(target string)

	now func() time.Time
}

// New returns a Scaffolder writing the bundled template to the OS filesystem.
func New(confirmer Confirmer) *Scaffolder {
	return &Scaffolder{
		FS:        afero.NewOsFs(),
		Template:  template.FS(),
		Mapping:   template.DefaultRenameMapping(),
		Files:     template.DefaultPlaceholderFiles(),
		Token:     template.Token,
		Confirmer: confirmer,
		now:       time.Now,
	}
}

// Run scaffolds a project: it normalizes the name, prepares the target,
// copies the template, renames escaped entries and substitutes the
// placeholder. It returns model.ErrUserCancelled, with nothing changed on
// disk, when the user declines to overwrite. Once the copy has started a
// failure leaves the partial tree in place.
func (s *Scaffolder) Run(ctx context.Context, req Request) (*model.Project, error) {
	// Step 1: Validate inputs. The mapping and file list are part of
	// the binary, so a bad one is a packaging defect.
	if strings.TrimSpace(req.ProjectName) == "" {
		return nil, model.NewCLIError(model.ExitGeneralError, "project name is required")
	}
	if err := s.Mapping.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitPackagingDefect, "invalid rename mapping", err)
	}
	if err := s.Files.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitPackagingDefect, "invalid placeholder file list", err)
	}

	// Step 2: Derive the package name and resolve the target.
	packageName := naming.Normalize(req.ProjectName)

	targetDir := req.TargetDir
	if targetDir == "" {
		targetDir = req.ProjectName
	}
	target, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFilesystemError, "failed to resolve target directory", err)
	}

	// Step 3: Clear the target. This is the last point where the run can
	// be abandoned with nothing changed on disk.
	overwritten, err := s.prepareTarget(ctx, req, target)
	if err != nil {
		return nil, err
	}

	if s.BeforeCopy != nil {
		s.BeforeCopy(target)
	}

	// Step 4: Copy, then restore escaped names, then substitute. The
	// placeholder list uses real names, so renaming must come first.
	output.Debug("materializing template", "target", target)
	if err := Materialize(s.Template, s.FS, target); err != nil {
		return nil, err
	}
	createdAt := s.clock()

	renamed, err := RenameEntries(s.FS, target, s.Mapping)
	if err != nil {
		return nil, err
	}
	output.Debug("renamed entries", "count", len(renamed))

	substituted, err := Substitute(s.FS, target, s.Files, s.Token, packageName)
	if err != nil {
		return nil, err
	}

	return &model.Project{
		Name:        req.ProjectName,
		PackageName: packageName,
		TargetDir:   target,
		Overwritten: overwritten,
		Renamed:     renamed,
		Substituted: substituted,
		Install:     model.InstallSkipped,
		Git:         model.GitSkipped,
		CreatedAt:   createdAt,
	}, nil
}

// prepareTarget makes sure target does not exist, asking before removing
// an existing entry. It reports whether something was removed.
func (s *Scaffolder) prepareTarget(ctx context.Context, req Request, target string) (bool, error) {
	exists, err := entryExists(s.FS, target)
	if err != nil {
		return false, model.WrapCLIError(model.ExitFilesystemError,
			fmt.Sprintf("failed to check %s", target), err)
	}
	if !exists {
		return false, cancelled(ctx)
	}

	// Removing a directory that contains the working directory would
	// leave the invoking shell in a deleted directory.
	if wd, err := os.Getwd(); err == nil && isWithin(wd, target) {
		return false, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("refusing to overwrite %s: it contains the working directory", target))
	}

	if !req.Force {
		if s.Confirmer == nil {
			return false, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("directory %q already exists (use --force to overwrite)", req.ProjectName))
		}
		ok, err := s.Confirmer.ConfirmOverwrite(ctx, req.ProjectName)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, model.ErrUserCancelled
		}
	}
	// Ctrl+C during the confirmation may race with the answer; a done
	// context wins so nothing is removed.
	if err := cancelled(ctx); err != nil {
		return false, err
	}

	output.Debug("removing existing directory", "target", target)
	if err := s.FS.RemoveAll(target); err != nil {
		return false, model.WrapCLIError(model.ExitFilesystemError,
			fmt.Sprintf("failed to remove %s", target), err)
	}
	return true, nil
}

func (s *Scaffolder) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// cancelled maps a done context to model.ErrUserCancelled.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrUserCancelled, err)
	}
	return nil
}

// isWithin reports whether path is dir itself or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
