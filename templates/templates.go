// Package templates embeds the template sets create-creatif renders into new projects.
package templates

import "embed"

// Root is the directory of FS holding one subdirectory per template set.
const Root = "."

const (
	Base    = "base"
	Starter = "starter"
)

//go:embed all:base all:starter
var FS embed.FS
