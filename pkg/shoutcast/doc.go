// Package shoutcast reads ICY/Shoutcast streams for their metadata rather
// than their audio.
//
// It descends from github.com/romantomjak/shoutcast, reoriented for metadata
// extraction:
//   - Playlist resolution: .pls and .m3u URLs are resolved to the actual stream URL
//   - Response headers are decoded into a Station descriptor, with mis-encoded
//     multi-byte text repaired
//   - In-band metadata is negotiated via Icy-MetaData and the current
//     StreamTitle decoded at the advertised metadata interval
package shoutcast
