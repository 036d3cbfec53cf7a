package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// htmlWithData wraps a JSON literal in the script assignment the site uses.
func htmlWithData(json string) []byte {
	return []byte(fmt.Sprintf(`<!doctype html><html><head><title>t</title></head><body>
<script>window.ytcfg = {};</script>
<script>var ytInitialData = %s;</script>
</body></html>`, json))
}

func mustDocument(t *testing.T, json string) Document {
	t.Helper()
	doc, err := ParseEmbedded(htmlWithData(json))
	require.NoError(t, err)
	return doc
}

const searchPageJSON = `{
  "contents": {"twoColumnSearchResultsRenderer": {"primaryContents": {"sectionListRenderer": {"contents": [
    {"itemSectionRenderer": {"contents": [
      {"channelRenderer": {
        "channelId": "UC_lofi_1",
        "title": {"simpleText": "Lofi Girl"},
        "thumbnail": {"thumbnails": [{"url": "//yt3.ggpht.com/small"}, {"url": "//yt3.ggpht.com/large"}]},
        "subscriberCountText": {"simpleText": "14.2M subscribers"},
        "videoCountText": {"runs": [{"text": "812"}, {"text": " videos"}]},
        "ownerBadges": [{"metadataBadgeRenderer": {"style": "BADGE_STYLE_TYPE_VERIFIED"}}],
        "descriptionSnippet": {"runs": [{"text": "beats to relax/study to"}]}
      }},
      {"shelfRenderer": {"title": {"simpleText": "Latest from Lofi Girl"}}},
      {"channelRenderer": {"channelId": "UC_lofi_2", "title": {"simpleText": "Chillhop Music"}}},
      {"videoRenderer": {"videoId": "abc"}},
      {"channelRenderer": {
        "channelId": "UC_lofi_3",
        "title": {"simpleText": "College Music"},
        "ownerBadges": [{"metadataBadgeRenderer": {"style": "BADGE_STYLE_TYPE_OFFICIAL"}}]
      }}
    ]}},
    {"continuationItemRenderer": {"trigger": "CONTINUATION_TRIGGER_ON_ITEM_SHOWN"}}
  ]}}}}
}`

const videosPageJSON = `{
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
    {"tabRenderer": {"title": "Home", "content": {"sectionListRenderer": {"contents": []}}}},
    {"tabRenderer": {"title": "Videos", "content": {"richGridRenderer": {"contents": [
      {"richItemRenderer": {"content": {"videoRenderer": {
        "videoId": "vid1",
        "title": {"runs": [{"text": "First upload"}]},
        "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/vid1/hq.jpg"}]},
        "viewCountText": {"simpleText": "1,024 views"},
        "publishedTimeText": {"simpleText": "2 days ago"},
        "lengthText": {"simpleText": "3:15"}
      }}}},
      {"richItemRenderer": {"content": {"videoRenderer": {
        "videoId": "vid2",
        "title": {"runs": [{"text": "Second upload"}]},
        "thumbnailOverlays": [{"thumbnailOverlayTimeStatusRenderer": {"text": {"simpleText": "10:02"}}}]
      }}}},
      {"continuationItemRenderer": {}}
    ]}}}}
  ]}}
}`

const watchPageJSON = `{
  "contents": {"twoColumnWatchNextResults": {"results": {"results": {"contents": [
    {"videoPrimaryInfoRenderer": {"videoActions": {"menuRenderer": {"topLevelButtons": [
      {"segmentedLikeDislikeButtonViewModel": {"likeButtonViewModel": {"likeButtonViewModel": {"toggleButtonViewModel": {"toggleButtonViewModel": {"defaultButtonViewModel": {"buttonViewModel": {"title": "12K"}}}}}}}}
    ]}}}},
    {"videoSecondaryInfoRenderer": {}},
    {"itemSectionRenderer": {"sectionIdentifier": "comment-item-section", "contents": [
      {"commentsEntryPointHeaderRenderer": {"headerText": {"runs": [{"text": "Comments"}]}, "commentCount": {"simpleText": "1,234"}}}
    ]}}
  ]}}}}
}`
