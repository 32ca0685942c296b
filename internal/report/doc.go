// Package report renders audit results for humans and tools.
//
// The markdown report is the primary deliverable: a deterministic
// document built from the structured findings, with an optional
// model-written narrative section on top. Determinism matters: two
// runs over identical findings produce byte-identical reports apart
// from the narrative text, so reports can be diffed across audits.
// When narrative synthesis is disabled or unavailable the report says
// so in a visible note instead of failing.
package report
