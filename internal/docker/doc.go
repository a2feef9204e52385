// Package docker wraps the Docker Engine SDK for the containerized
// dependency install (--docker).
//
// The install runs in a throwaway Node container with the scaffolded
// project bind-mounted as its working directory. Every container the CLI
// creates carries starterpack.* labels, so containers left behind by an
// interrupted run can be found and removed on the next one.
package docker
