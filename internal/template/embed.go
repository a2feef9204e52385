package template

import (
	"embed"
	"io/fs"

	"github.com/codingin/create-starterpack/internal/model"
)

// Token is the placeholder replaced with the normalized package name.
const Token = "{{projectName}}"

// DefaultProjectName is offered when the user is prompted for a name.
const DefaultProjectName = "my-fullstack-app"

// bundle holds the template tree. The all: prefix is required: without it
// embed skips files starting with "." or "_", which would drop every
// escaped dotfile.
//
//go:embed all:files
var bundle embed.FS

// FS returns the template tree rooted at its top-level directory, so that
// "package.json" names the project root manifest.
func FS() fs.FS {
	sub, err := fs.Sub(bundle, "files")
	if err != nil {
		// fs.Sub only fails for an invalid path literal.
		panic(err)
	}
	return sub
}

// DefaultRenameMapping returns a fresh copy of the escaped-name mapping.
func DefaultRenameMapping() model.RenameMapping {
	return model.RenameMapping{
		"_gitignore":      ".gitignore",
		"_github":         ".github",
		"_env.example":    ".env.example",
		"_prettierrc":     ".prettierrc",
		"_prettierignore": ".prettierignore",
	}
}

// DefaultPlaceholderFiles returns the files, relative to the project root,
// in which Token is substituted. Order is the order of substitution.
func DefaultPlaceholderFiles() model.PlaceholderFileList {
	return model.PlaceholderFileList{
		"package.json",
		"apps/frontend/package.json",
		"apps/backend/package.json",
		"packages/shared/package.json",
		"apps/frontend/index.html",
	}
}
