// Package jellyfin implements typed bindings for the Jellyfin media server
// HTTP API.
//
// A Server is bound to a base URL and an authentication token and exposes the
// library (sections, movies, shows, episodes, music, photos), playlists,
// connected player clients, watch history, and server-wide search. Responses
// are XML MediaContainer documents; every element is mapped onto a typed
// object that keeps a reference to its server so navigation methods (a show's
// seasons, a playlist's items) can issue follow-up requests.
//
// Construct a client with Connect, which also loads the server identity
// attributes, or with New when the first request should be deferred.
package jellyfin

// Version is the bindings release version advertised in identity headers.
const Version = "0.1.0"

// providerIdentifier names the library provider in scrobble, rating, and
// playback requests.
const providerIdentifier = "com.jellyfinapp.plugins.library"
