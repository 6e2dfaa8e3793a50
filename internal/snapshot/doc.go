// Package snapshot loads object-graph scenarios and builds them inside a
// collector.
//
// A scenario is a JSON document describing objects by id, the references
// between them and which objects are rooted, soft-rooted or already
// destroyed:
//
//	{
//	  "version": "v1.0.0",
//	  "objects": [
//	    {"id": 1, "type": "actor", "size": 128, "ptrs": [2]},
//	    {"id": 2, "type": "widget", "ptrs": [1]},
//	    {"id": 3, "type": "singleton", "fixed": true}
//	  ],
//	  "roots": [1],
//	  "soft_roots": [],
//	  "destroyed": []
//	}
//
// The version is a semantic version; this package reads every v1 release up
// to SupportedVersion. Build turns a validated scenario into Node objects
// and registers the root list with the collector. Export writes the live
// graph back out in the same format.
package snapshot
