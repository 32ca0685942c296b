// Package llm turns structured audit findings into a short narrative
// through a hosted language model.
//
// The narrative is strictly optional: every failure mode here (no
// API key, network trouble, provider errors, timeouts) surfaces as a
// typed error the report layer converts into a visible note, never
// into a failed audit. The model receives only derived findings and
// the audit plan, not raw page HTML, and is constrained by the plan
// to summarize rather than invent.
package llm
