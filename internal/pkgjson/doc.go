// Package pkgjson reads the package.json manifests of a scaffolded project.
//
// Manifests are parsed leniently: comments and trailing commas are stripped
// with github.com/tidwall/jsonc before decoding, and only the fields the CLI
// reports on are kept. Unknown fields are ignored.
package pkgjson
