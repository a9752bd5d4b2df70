// Package io reads and writes layered graphs and ordering results as JSON.
//
// # Graph format
//
//	{
//	  "nodes": [
//	    {"id": "app",   "row": 0},
//	    {"id": "auth",  "row": 1, "group": "backend"},
//	    {"id": "cache", "row": 1, "group": "backend"}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "auth", "weight": 3},
//	    {"from": "app", "to": "cache"}
//	  ]
//	}
//
// Node fields: id (required), row (default 0), group (slash-separated path
// used by grouped ordering), kind ("subdivider" for nodes created by
// normalization), master (origin of a subdivider), meta (free-form object).
// Edge fields: from and to (required), weight (positive, default 1), meta.
//
// Node order within a row is significant: it is the initial order on input
// and the current order on output.
//
// # Result format
//
// [Result] documents carry the run ID, crossing counts, the termination
// reason and the final row orders, optionally with the ordered graph
// embedded. [ReadAny] accepts either document kind.
package io
