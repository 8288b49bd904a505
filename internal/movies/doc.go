// Package movies derives cached movie searches from the committed search text.
//
// A Searcher reads state.Store.SearchText, asks the proxy for matches through
// apiclient, and keeps the answers in a query.Cache keyed by the exact text. OMDb's
// envelope is unwrapped here: Response "False" becomes an *APIError whose message is
// also written to the store, and transport failures are retried once before the
// store shows FailureMessage.
package movies
