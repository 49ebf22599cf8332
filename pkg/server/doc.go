// Package server exposes the concentration pipeline over HTTP.
//
// # Routes
//
//	GET  /health               build info and liveness
//	POST /api/v1/concentrate   {document, options} -> {document, pairs, stats, cache_hit}
//	POST /api/v1/groups        {document, group_property} -> {group_property, groups}
//	POST /api/v1/fetch         {query, params, refresh, options?} -> document
//
// The fetch route exists only when [Config.Fetcher] is set. When the fetch
// request carries options the fetched document is concentrated before it
// is returned, in the concentrate response shape.
//
// # Errors
//
// Failures are returned as {"error": {"code", "message", "request_id"}}
// with the status derived from the error code: input problems map to 400,
// missing resources to 404, database failures to 502 and 504, and
// everything else to 500.
//
// Every response carries an X-Request-ID header, echoing the client's or a
// freshly generated UUID.
package server
