// Package query is a small keyed fetch cache with a server-state lifecycle.
//
// Every key moves through idle, fetching, then success or error. A successful
// result is served from memory until it is older than the stale time (one hour by
// default). Concurrent Fetch calls for the same key share one underlying call.
// Failures are retried once unless the fetch marks them with Permanent.
//
// A Backend, normally RedisBackend, may sit behind the memory layer so several
// client processes share results. Backend errors are logged and otherwise ignored.
package query
