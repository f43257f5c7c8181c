// Package keystore persists generated key pairs.
//
// Callers depend on the Store interface; the crypto code never touches
// disk. Two backends exist:
//
//   - FileStore: a TOML document (keys.toml) written with 0600
//   - SQLiteStore: a pure-Go SQLite database (keys.db)
//
// Keys are stored as plain PEM. Protecting them at rest is left to the
// filesystem.
package keystore
