package model

// DefaultLikeCountText is reported when a watch page has no readable like button.
const DefaultLikeCountText = "N/A"

// VideoAnalytics holds the engagement figures read from a watch page.
type VideoAnalytics struct {
	LikeCountText string `json:"likeCountText"`
	CommentsCount int    `json:"commentsCount"`
}

// DefaultVideoAnalytics is used whenever a watch page cannot be fetched or read.
func DefaultVideoAnalytics() VideoAnalytics {
	return VideoAnalytics{LikeCountText: DefaultLikeCountText}
}

// VideoSummary is one video from a channel's video grid, with its analytics
// merged in by the orchestrator.
type VideoSummary struct {
	VideoID           string `json:"videoId"`
	Title             string `json:"title,omitempty"`
	ThumbnailURL      string `json:"thumbnailUrl,omitempty"`
	ViewCountText     string `json:"viewCountText,omitempty"`
	PublishedTimeText string `json:"publishedTimeText,omitempty"`
	DurationText      string `json:"durationText,omitempty"`
	VideoAnalytics
}
