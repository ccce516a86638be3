// Package migrations хранит схему Postgres, встроенную в бинарник.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
