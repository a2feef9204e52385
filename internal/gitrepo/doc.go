// Package gitrepo initializes a git repository in a scaffolded project.
//
// It shells out to the git CLI, the same binary the user works with, so
// their global configuration (identity, default branch, hooks) applies.
// A project created inside an existing work tree is left alone rather
// than becoming a nested repository.
package gitrepo
