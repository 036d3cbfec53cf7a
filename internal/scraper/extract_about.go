package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ytscout/ytscout-go/internal/model"
)

const (
	descriptionContainerSelector = "#description-container"
	linkListSelector             = "#link-list-container a[href]"
	membershipBadgeSelector      = "#sponsor-button"
)

// platformDomains is checked in order; the first platform whose domain
// matches a link's host wins.
var platformDomains = []struct {
	platform string
	domains  []string
}{
	{model.PlatformTwitter, []string{"twitter.com", "x.com"}},
	{model.PlatformInstagram, []string{"instagram.com"}},
	{model.PlatformFacebook, []string{"facebook.com", "fb.com"}},
	{model.PlatformTikTok, []string{"tiktok.com"}},
	{model.PlatformLinkedIn, []string{"linkedin.com"}},
	{model.PlatformDiscord, []string{"discord.gg", "discord.com"}},
	{model.PlatformTelegram, []string{"t.me", "telegram.me", "telegram.org"}},
	{model.PlatformPatreon, []string{"patreon.com"}},
	{model.PlatformGitHub, []string{"github.com"}},
}

// ExtractChannelDetail reads an about page. The description comes from the
// page markup; the embedded document is only a fallback and may be empty.
func ExtractChannelDetail(doc Document, dom *goquery.Document) model.ChannelDetail {
	detail := model.ChannelDetail{
		Description: description(doc, dom),
		SocialLinks: make(map[string]string),
	}

	dom.Find(linkListSelector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		addSocialLink(detail.SocialLinks, resolveRedirect(strings.TrimSpace(href)))
	})

	detail.HasMembership = dom.Find(membershipBadgeSelector).Length() > 0
	return detail
}

func description(doc Document, dom *goquery.Document) string {
	if s, ok := dom.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if s := strings.TrimSpace(dom.Find(descriptionContainerSelector).First().Text()); s != "" {
		return s
	}
	if s := strings.TrimSpace(doc.Get("metadata.channelMetadataRenderer.description").String()); s != "" {
		return s
	}
	return model.DefaultDescription
}

// addSocialLink files link under its platform. Each slot keeps the first link
// it receives; website only takes links no platform claimed.
func addSocialLink(links map[string]string, link string) {
	if link == "" {
		return
	}
	platform := ClassifyLink(link)
	if platform == "" {
		return
	}
	if _, taken := links[platform]; taken {
		return
	}
	links[platform] = link
}

// ClassifyLink returns the platform a link belongs to, model.PlatformWebsite
// for any other web link, or "" when the link has no host.
func ClassifyLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range platformDomains {
		for _, d := range p.domains {
			if hostMatches(host, d) {
				return p.platform
			}
		}
	}
	return model.PlatformWebsite
}

// hostMatches reports whether domain occurs in host on label boundaries:
// the host itself, a subdomain of it, or a regional variant such as
// instagram.com.br. A plain substring test is deliberately not used, since
// it would file netflix.com under x.com.
func hostMatches(host, domain string) bool {
	return strings.Contains("."+host+".", "."+domain+".")
}

// resolveRedirect unwraps the site's outbound redirect links
// (/redirect?q=<target>) to their target. Links without a host are dropped.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Path == "/redirect" {
		if target := u.Query().Get("q"); target != "" {
			return absoluteLink(target)
		}
	}
	if u.Host == "" {
		return ""
	}
	return absoluteLink(href)
}

func absoluteLink(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}
