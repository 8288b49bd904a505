// Package proxy is the HTTP front for OMDb. It holds the API key so the terminal
// client never sees it, and it forwards bodies without interpreting them.
//
// Routes:
//
//	GET /api/movies?title=<t>  -> <base>/?apikey=<key>&s=<t>
//	GET /api/movie?id=<imdbID> -> <base>/?apikey=<key>&i=<id>&plot=full
//	GET /healthz               -> ok
//
// Upstream failures answer 502 with an OMDb-shaped {"Response":"False"} envelope.
// There is no caching or rate limiting at this layer.
package proxy
