// Package history records the most recent rsakit operations.
//
// The history is a ring of at most MaxEntries entries, newest first. The
// file backend stores it as JSON Lines:
//
//	$RSAKIT_HOME/history.jsonl
//
// # Failure Handling
//
// Recording is best-effort. Callers log a failed Record and continue; an
// encryption never fails just because its history entry could not be
// written.
//
// # Reading
//
// Recorder.Entries returns the ring. Malformed lines are skipped so a
// partial write never hides the rest of the history.
package history
