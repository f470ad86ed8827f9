package consts

const (
	MimePrefixImage = "image"
)

// BaseURL 请求上下文中的站点根地址，用于拼接邮件里的链接
type baseURLKey struct{}

var BaseURL = baseURLKey{}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	SnippetLength    = 150
	AvatarSize       = 36
)
