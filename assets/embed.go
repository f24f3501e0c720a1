// Package assets embeds the default word bank and the SQL migrations.
package assets

import (
	"embed"
	"io"
	"io/fs"
)

//go:embed wordbank.txt sql/*.sql
var FS embed.FS

// WordBank opens the embedded default word bank.
// Format: [category] headers, one word per line, '#' comments.
func WordBank() (io.ReadCloser, error) {
	return FS.Open("wordbank.txt")
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
