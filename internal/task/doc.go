// Package task parses, validates, sorts and stores to-do tasks.
//
// The task file (tasks.json by default) is a flat JSON array:
//
//	[
//	  {
//	    "id": "0b9e7c0e-5f1e-4d59-9c1b-5bb1f0a1c2d3",
//	    "text": "Renew passport",
//	    "done": false,
//	    "priority": "High",
//	    "due_date": "2026-10-15T17:30",
//	    "notified": true
//	  }
//	]
//
// # Identity
//
// Every task carries a UUID. Files written without ids are upgraded on
// load; the ids are persisted on the next save.
//
// # Due Dates
//
// due_date is an ISO date or date-time in local time. A bare date means
// local midnight. Values that do not parse are kept verbatim and never
// trigger a notification.
//
// # Priority
//
//   - "High": rank 0
//   - "Normal": rank 1 (default, also used for unknown values)
//   - "Low": rank 2
//
// # Ordering
//
// Sort orders by due date ascending, then priority rank ascending. The
// sort is stable, so tasks with equal keys keep their stored order.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Whole-file overwrite (last write wins)
package task
