package readurl

// Platform identifies a content platform that has dedicated extraction rules.
type Platform string

// Supported platforms.
const (
	PlatformUnknown Platform = ""
	PlatformWeChat  Platform = "wechat"
)
