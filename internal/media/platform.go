package media

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type header struct {
	Name  string
	Value string
}

// Profile shapes requests for one platform.
type Profile struct {
	Platform                 models.Platform
	Headers                  []header
	ExtractorArgs            string
	Retries                  int
	SkipUnavailableFragments bool
}

func DetectPlatform(rawURL string) models.Platform {
	host := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}
	switch {
	case strings.Contains(host, "tiktok.com"):
		return models.PlatformTikTok
	case strings.Contains(host, "instagram.com"):
		return models.PlatformInstagram
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return models.PlatformYouTube
	default:
		return models.PlatformGeneric
	}
}

func ProfileFor(platform models.Platform, retries int) Profile {
	p := Profile{
		Platform:                 platform,
		Retries:                  retries,
		SkipUnavailableFragments: true,
	}
	switch platform {
	case models.PlatformTikTok:
		p.Headers = []header{
			{Name: "User-Agent", Value: desktopUserAgent},
			{Name: "Referer", Value: "https://www.tiktok.com/"},
		}
		p.ExtractorArgs = "tiktok:api_hostname=api22-normal-c-useast2a.tiktokv.com"
	case models.PlatformInstagram:
		p.Headers = []header{
			{Name: "User-Agent", Value: desktopUserAgent},
		}
	}
	return p
}

func (p Profile) args() []string {
	var args []string
	for _, h := range p.Headers {
		args = append(args, "--add-header", h.Name+":"+h.Value)
	}
	if p.ExtractorArgs != "" {
		args = append(args, "--extractor-args", p.ExtractorArgs)
	}
	if p.Retries > 0 {
		n := strconv.Itoa(p.Retries)
		args = append(args, "--extractor-retries", n, "--retries", n, "--fragment-retries", n)
	}
	if p.SkipUnavailableFragments {
		args = append(args, "--skip-unavailable-fragments")
	}
	return args
}
