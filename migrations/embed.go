// Package migrations holds the versioned SQL schema of the ledger store.
// Files follow golang-migrate's NNNNNN_name.{up,down}.sql convention and are
// embedded so the server and cmd/migrate never depend on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
