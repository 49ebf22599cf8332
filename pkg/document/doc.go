// Package document reads and writes graphs in the JSON shape produced by
// the Neo4j HTTP API for graph results.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "1", "labels": ["Cell"], "properties": {"timeGroup": 1, "cells": [3, 4]}},
//	    {"id": "2", "labels": ["Cell"], "properties": {"timeGroup": 2}}
//	  ],
//	  "relationships": [
//	    {"id": "7", "type": "Correlation", "startNode": "1", "endNode": "2",
//	     "properties": {"value": 0.82}}
//	  ]
//	}
//
// IDs may be strings or integers. Property values are scalars; arrays of
// scalars are flattened into a "-"-joined string, so "cells": [3, 4]
// decodes as "3-4".
//
// A full transaction response ({"results": [{"data": [{"graph": ...}]}]})
// is also accepted by [Read].
//
// # Hub Elements
//
// Output documents mark synthetic hub nodes and relationships with
// "dummy": true. Hub nodes carry "size", the number of real vertices they
// stand for; the hub relationship of a concentration carries "count" and
// "average" both at top level and in its properties. The "groups" array
// lists each group with its member count, largest first.
//
// # Graph Conversion
//
// [Document.ToGraph] and [FromGraph] convert to and from [graph.Graph],
// preserving node and relationship order.
package document
