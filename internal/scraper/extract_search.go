package scraper

import (
	"strings"

	"github.com/ytscout/ytscout-go/internal/model"
)

const searchSectionsPath = "contents.twoColumnSearchResultsRenderer.primaryContents.sectionListRenderer.contents"

// ExtractChannelSummaries returns every channel result on a search page.
// Results of any other kind are skipped.
func ExtractChannelSummaries(doc Document) []model.ChannelSummary {
	var items []Node
	for _, section := range doc.Get(searchSectionsPath).Array() {
		items = append(items, section.Get("itemSectionRenderer.contents").Array()...)
	}
	return collect(items, channelSummary)
}

func channelSummary(item Node) (model.ChannelSummary, bool) {
	r := item.Get("channelRenderer")
	id := r.Get("channelId").String()
	if !r.IsObject() || id == "" {
		return model.ChannelSummary{}, false
	}

	return model.ChannelSummary{
		ChannelID:           id,
		ChannelName:         r.Get("title").Text(),
		ThumbnailURL:        thumbnailURL(r.Get("thumbnail")),
		SubscriberCountText: r.Get("subscriberCountText").Text(),
		VideoCountText:      r.Get("videoCountText").Text(),
		IsVerified:          hasVerifiedBadge(r.Get("ownerBadges")),
		DescriptionSnippet:  r.Get("descriptionSnippet").Text(),
	}, true
}

func hasVerifiedBadge(badges Node) bool {
	for _, b := range badges.Array() {
		style := b.Get("metadataBadgeRenderer.style").String()
		if strings.Contains(style, "VERIFIED") {
			return true
		}
	}
	return false
}
