// Package source provides the concrete page sources lister can browse.
//
// # Overview
//
// Every type here ends up behind the pager.Source interface. The pager
// controller never knows which backend it talks to.
//
//   - memory.go: in-memory slices with an artificial delay, the offline demo
//     backend
//   - client.go: HTTP client for the lister API served by `lister serve`
//   - sqlite.go: SQLite-backed catalog (modernc.org/sqlite), used by the
//     server and by the local "sqlite" backend
//   - observed.go: decorator that records fetch outcomes in a state.Store
//   - types.go: wire types shared with the server
//
// # Paging
//
// Pages are numbered from 1 and have a fixed size per source. HasMore is
// computed from the backing data, never from an empty page: the SQLite store
// reads one row past the page to decide it.
//
// # Client Usage
//
//	client, err := source.NewClient("127.0.0.1:7488")
//	if err != nil {
//		return err
//	}
//	products := source.NewHTTP[catalog.Product](client, catalog.KindProducts, 25)
//	ctrl := pager.New[catalog.Product](products)
//
// # API Endpoints
//
//   - GET /api/health
//   - GET /api/products?page=N&limit=M
//   - GET /api/contacts?page=N&limit=M
//
// Responses are PageResponse values. Non-2xx responses carry an ErrorResponse
// body whose message is folded into the returned error.
//
// # Error Handling
//
// All errors are wrapped with context using fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/products?limit=25&page=2 returned status 500: boom"
//   - "decode response: unexpected EOF"
//
// No retries happen here. The pager controller surfaces failures and the UI
// decides when to try again.
//
// # Thread Safety
//
// Client, Memory and SQLite are safe for concurrent use.
package source
