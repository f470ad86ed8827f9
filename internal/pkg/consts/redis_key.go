package consts

const (
	CaptchaKey        = "captcha:answer:"
	RestoreCodeKey    = "user:restore:code:"
	TokenBlacklistKey = "auth:token:revoked:"
	StatisticsAllKey  = "statistics:all"
)

const (
	ModerationDigestLock = "lock:moderation:digest"
	StatisticsLock       = "lock:statistics:refresh"
	SysBoxCleanLock      = "lock:sysbox:clean"
)
