package assets

import (
	_ "embed"
)

//go:embed draw.yaml
var DrawConfig []byte
