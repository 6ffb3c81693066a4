package domain

// Platforms is the set of platform names the service accepts. Only twitter
// and instagram have real adapters; the rest publish through the mock
// adapter until integrated.
var Platforms = []string{
	"bluesky", "facebook", "gmb", "instagram", "linkedin", "pinterest",
	"reddit", "snapchat", "telegram", "tiktok", "threads", "twitter", "youtube",
}

// ValidPlatform reports whether name is a supported platform.
func ValidPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}
