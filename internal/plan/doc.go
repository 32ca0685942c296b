// Package plan manages the audit plan: the markdown document that
// constrains what the narrative synthesis may say and how it says it.
//
// A bundled default plan ships with the binary. Operators can replace
// the active plan with their own; every replacement archives the
// previous version, and a rollback restores the most recent archive.
package plan
