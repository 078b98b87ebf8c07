package layerpaper

import (
	_ "embed"
)

//go:embed version.txt
var Version string

//go:embed layerpaper.toml
var DefaultConfig string
