package shoutcast

import (
	"regexp"
	"strings"
)

// Metadata represents one in-band metadata block sent by the server.
type Metadata struct {
	StreamTitle string
}

var metadataPairRe = regexp.MustCompile(`([A-Za-z_]+)='(.*?)';`)

// NewMetadata parses the text of a metadata block, a sequence of key='value';
// pairs padded with NULs. StreamTitle is the conventional key; TITLE is the
// fallback used by Ogg-embedded metadata. Unparseable input yields an empty
// title, never an error.
func NewMetadata(b []byte) *Metadata {
	text := strings.TrimRight(string(b), "\x00")
	if text != "" && !strings.HasSuffix(text, ";") {
		// Some servers drop the final terminator.
		text += ";"
	}

	pairs := make(map[string]string)
	for _, m := range metadataPairRe.FindAllStringSubmatch(text, -1) {
		pairs[m[1]] = m[2]
	}

	title, ok := pairs["StreamTitle"]
	if !ok {
		title = pairs["TITLE"]
	}

	return &Metadata{StreamTitle: strings.TrimSpace(title)}
}
