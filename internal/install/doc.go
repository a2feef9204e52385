// Package install installs the dependencies of a freshly scaffolded
// project, either by running the package manager on the host or inside a
// Node container.
//
// Install failures are not fatal to a scaffold run: the project is already
// complete on disk and the user can retry by hand with ManualCommand.
package install
