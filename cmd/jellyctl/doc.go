// Command jellyctl browses and controls Jellyfin media servers from the
// terminal: library sections, search, watched state, playlists, connected
// players, MyJellyfin account linking, and offline library snapshots.
package main
