// Package services defines the [Backend] interface for the playlist backend and implements it over HTTP.
//
// # Backend Contract
//
//	GET {base}/playlists      → JSON array of {id, name, image}
//	GET {base}/playlist/{id}  → JSON array of {name, artists, url}
//	    {base}/login          → browser navigation, starts the backend-owned OAuth flow
//
// # Session Credentials
//
// The backend identifies the user by cookies it sets at the end of its login flow.
// [NewSessionClient] builds an [http.Client] whose cookie jar is seeded with a configured cookie line,
// so every request is credentialed the way a browser tab would be. Cookies set by later responses are kept.
//
// # Error Handling
//
// [BackendService] returns typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : backend answered 401
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx status
//   - [shared.ErrInvalidResponse] : body was not the expected JSON array
//
// Callers decide what to do with a failure; nothing is retried and no timeout is applied beyond the caller's context.
package services
