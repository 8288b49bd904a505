// Package ui is the Bubble Tea front end for cinesearch.
//
// The Model owns the screen: a header with the menus and proxy status, the
// search bar, the result list, and the detail and poster views. Search state
// lives in a state.Store shared with the movies.Searcher; the model mirrors it
// on the Bubble Tea goroutine and never renders from the store directly.
//
// Changes made outside Update (failure messages written by the searcher) reach
// the model as StoreChangedMsg, which carries no payload. The model re-reads the
// store when it handles the message, so a late message can never roll the view
// back to an older state.
//
// Fetches run as tea.Cmds. Each result carries the search text it was issued
// for and is dropped if the committed text has moved on.
package ui
