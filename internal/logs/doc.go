// Package logs reads skellylogs files back for the CLI.
//
// It locates the newest file written under the default naming policy, prints
// the last N entries with bounded memory, follows appends by polling, and
// filters by severity. Exception and stack lines that follow an entry share
// that entry's severity.
package logs
