package scraper

import "github.com/ytscout/ytscout-go/internal/model"

// ExtractVideoSummaries returns the videos listed on a channel's videos tab.
// Analytics are left zero; the orchestrator fills them per video.
func ExtractVideoSummaries(doc Document) []model.VideoSummary {
	return collect(videoGridItems(doc), videoSummary)
}

// videoGridItems finds the first tab carrying a video grid. Both the rich
// grid layout and the older section/grid layout are recognised.
func videoGridItems(doc Document) []Node {
	for _, tab := range doc.Get("contents.twoColumnBrowseResultsRenderer.tabs").Array() {
		content := tab.Get("tabRenderer.content")

		if grid := content.Get("richGridRenderer.contents"); grid.Exists() {
			return grid.Array()
		}

		var items []Node
		for _, section := range content.Get("sectionListRenderer.contents").Array() {
			for _, c := range section.Get("itemSectionRenderer.contents").Array() {
				items = append(items, c.Get("gridRenderer.items").Array()...)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func videoSummary(item Node) (model.VideoSummary, bool) {
	r := item.Get("richItemRenderer.content.videoRenderer")
	if !r.Exists() {
		r = item.Get("gridVideoRenderer")
	}
	id := r.Get("videoId").String()
	if !r.IsObject() || id == "" {
		return model.VideoSummary{}, false
	}

	return model.VideoSummary{
		VideoID:           id,
		Title:             r.Get("title").Text(),
		ThumbnailURL:      thumbnailURL(r.Get("thumbnail")),
		ViewCountText:     r.Get("viewCountText").Text(),
		PublishedTimeText: r.Get("publishedTimeText").Text(),
		DurationText:      durationText(r),
	}, true
}

func durationText(r Node) string {
	if s := r.Get("lengthText").Text(); s != "" {
		return s
	}
	for _, o := range r.Get("thumbnailOverlays").Array() {
		if s := o.Get("thumbnailOverlayTimeStatusRenderer.text").Text(); s != "" {
			return s
		}
	}
	return ""
}
