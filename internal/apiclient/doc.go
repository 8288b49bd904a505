// Package apiclient is the HTTP client the terminal app uses to reach the cinesearch
// proxy. It never talks to OMDb directly; the API key stays with the proxy.
package apiclient
