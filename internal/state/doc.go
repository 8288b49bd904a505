// Package state holds the search state shared by every part of the client.
//
// # Overview
//
// The Store is the single source of truth for three strings:
//
//   - InputText: what is currently in the search box
//   - SearchText: the committed query the movie search observes
//   - Message: the status line shown when there are no results to render
//
// A Store is created once at startup with state.New and passed explicitly to the
// components that need it. There is no package-level instance.
//
// # Updates
//
// SetInputText, SetSearchText and SetMessage replace one field each. ResetMovies
// restores all three to InitialState in one locked update, so readers never observe
// a half-reset state.
//
// # Subscriptions
//
// Subscribe registers a Listener for one Field and returns an unsubscribe func:
//
//	unsub := store.Subscribe(state.FieldSearchText, func(st state.SearchState) {
//	    program.Send(searchTextMsg(st.SearchText))
//	})
//	defer unsub()
//
// Listeners fire only when the field's value actually changes. They run on the
// goroutine that made the change, after the lock is released, so a listener may
// read or even mutate the store. A reset that changes several fields notifies each
// changed field once, always with the fully reset state.
//
// # Concurrency Model
//
// Reads take a read lock and return SearchState by value. Writes take the write
// lock only for the assignment itself. Subscription bookkeeping uses its own mutex
// so listeners can subscribe or unsubscribe from inside a callback.
package state
