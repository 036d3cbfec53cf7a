package model

// DefaultDescription is reported when an about page carries no description.
const DefaultDescription = "No description found."

// Social platforms a channel link can be classified into. Website is the
// catch-all slot for the first unclassified link.
const (
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformLinkedIn  = "linkedin"
	PlatformDiscord   = "discord"
	PlatformTelegram  = "telegram"
	PlatformPatreon   = "patreon"
	PlatformGitHub    = "github"
	PlatformWebsite   = "website"
)

// ChannelSummary is one channel found by a search.
type ChannelSummary struct {
	ChannelID           string `json:"channelId"`
	ChannelName         string `json:"channelName,omitempty"`
	ThumbnailURL        string `json:"thumbnailUrl,omitempty"`
	SubscriberCountText string `json:"subscriberCountText,omitempty"`
	VideoCountText      string `json:"videoCountText,omitempty"`
	IsVerified          bool   `json:"isVerified"`
	DescriptionSnippet  string `json:"descriptionSnippet,omitempty"`
}

// ChannelDetail is the about-page projection of a channel.
type ChannelDetail struct {
	Description   string            `json:"description"`
	SocialLinks   map[string]string `json:"socialLinks"`
	HasMembership bool              `json:"hasMembership"`
}
