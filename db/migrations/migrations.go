package migrations

import "embed"

// FS embeds the ledger schema migrations. The golang-migrate library reads
// these files via the iofs driver when applying migrations on startup.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the application expects.
const Version = 1
