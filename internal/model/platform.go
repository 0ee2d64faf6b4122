package model

// Platform 社交平台
type Platform string

const (
	PlatformTwitter   Platform = "TWITTER"
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformLinkedIn  Platform = "LINKEDIN"
	PlatformInstagram Platform = "INSTAGRAM"
)

// Platforms 全部平台，顺序固定
var Platforms = []Platform{PlatformTwitter, PlatformFacebook, PlatformLinkedIn, PlatformInstagram}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}
