// Package audit scores intent documents against the code they cover.
//
// A node is stale when its covered subtree keeps changing while the
// document does not. The auditor combines three independent signals
// (document age, newer non-documentation changes in the subtree, and
// commit volume over a window) into a severity tier per node. It is
// advisory and read-only: callers decide what to do with the report.
package audit
