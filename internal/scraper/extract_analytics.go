package scraper

import "github.com/ytscout/ytscout-go/internal/model"

const watchContentsPath = "contents.twoColumnWatchNextResults.results.results.contents"

// likeLabelPaths are tried in order against each top-level action button.
var likeLabelPaths = []string{
	"segmentedLikeDislikeButtonViewModel.likeButtonViewModel.likeButtonViewModel.toggleButtonViewModel.toggleButtonViewModel.defaultButtonViewModel.buttonViewModel.title",
	"segmentedLikeDislikeButtonRenderer.likeButton.toggleButtonRenderer.defaultText",
	"toggleButtonRenderer.defaultText",
}

// ExtractVideoAnalytics reads the like label and comment count from a watch
// page. Missing data yields the defaults.
func ExtractVideoAnalytics(doc Document) model.VideoAnalytics {
	out := model.DefaultVideoAnalytics()
	contents := doc.Get(watchContentsPath).Array()

	for _, c := range contents {
		primary := c.Get("videoPrimaryInfoRenderer")
		if !primary.Exists() {
			continue
		}
		if label := likeLabel(primary); label != "" {
			out.LikeCountText = label
		}
		break
	}

	for _, c := range contents {
		section := c.Get("itemSectionRenderer")
		if !isCommentSection(section) {
			continue
		}
		out.CommentsCount = ParseCount(commentHeaderText(section))
		break
	}
	return out
}

func likeLabel(primary Node) string {
	for _, b := range primary.Get("videoActions.menuRenderer.topLevelButtons").Array() {
		for _, path := range likeLabelPaths {
			n := b.Get(path)
			if s := n.Text(); s != "" {
				return s
			}
			if s := n.AccessibilityLabel(); s != "" {
				return s
			}
		}
	}
	return ""
}

func isCommentSection(section Node) bool {
	if !section.IsObject() {
		return false
	}
	if section.Get("sectionIdentifier").String() == "comment-item-section" {
		return true
	}
	for _, c := range section.Get("contents").Array() {
		if c.Get("commentsEntryPointHeaderRenderer").Exists() {
			return true
		}
	}
	return false
}

func commentHeaderText(section Node) string {
	for _, c := range section.Get("contents").Array() {
		h := c.Get("commentsEntryPointHeaderRenderer")
		if !h.Exists() {
			continue
		}
		if s := h.Get("commentCount").Text(); s != "" {
			return s
		}
		return h.Get("headerText").Text()
	}
	return section.Get("header.commentsHeaderRenderer.countText").Text()
}
