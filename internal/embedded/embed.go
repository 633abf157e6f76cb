package embedded

import (
	"embed"
)

// FS embeds the default warehouse dictionary at build time.
//
//go:embed dictionary/*
var FS embed.FS

// DictionaryPath is the path of the default dictionary inside FS.
const DictionaryPath = "dictionary/warehouses.yaml"
