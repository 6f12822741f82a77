package catalog

import (
	"context"

	"github.com/ppalone/ytsearch"
)

// VideoSearch resolves a search phrase to a watch URL on the video platform.
// It fills a link slot only; it is not a Matcher.
type VideoSearch struct {
	client *ytsearch.Client
}

func NewVideoSearch() *VideoSearch {
	return &VideoSearch{client: ytsearch.NewClient(nil)}
}

// Link returns the first search result's watch URL, or nil when the search
// fails or finds nothing.
func (v *VideoSearch) Link(ctx context.Context, phrase string) *string {
	res, err := v.client.Search(ctx, phrase)
	if err != nil {
		return nil
	}

	for _, r := range res.Results {
		if r.VideoID != "" {
			return strPtr("https://www.youtube.com/watch?v=" + r.VideoID)
		}
	}
	return nil
}
