// Package export serializes scraped swatch records to their on-disk formats:
// the canonical CSV artifact and a supplementary JSON Lines file for
// downstream tooling. Encoding is deterministic so identical inputs produce
// byte-identical files.
package export
