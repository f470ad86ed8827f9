package dto

type RegisterDTO struct {
	Email         string `json:"e_mail" validate:"required,email"`
	Password      string `json:"password" validate:"min=6"`
	Name          string `json:"name" validate:"length=1:100"`
	Captcha       string `json:"captcha" validate:"required"`
	CaptchaSecret string `json:"captcha_secret" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"e_mail" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfoDTO 当前登录用户
type UserInfoDTO struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Photo           string `json:"photo"`
	Email           string `json:"email"`
	Moderation      bool   `json:"moderation"`
	ModerationCount int64  `json:"moderationCount"`
	Settings        bool   `json:"settings"`
}

type LoginResultDTO struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *UserInfoDTO `json:"user"`
}

type CaptchaDTO struct {
	Secret string `json:"secret"`
	Image  string `json:"image"`
}

type RestoreDTO struct {
	Email string `json:"email" binding:"required"`
}

type PasswordDTO struct {
	Code          string `json:"code" validate:"required"`
	Password      string `json:"password" validate:"min=6"`
	Captcha       string `json:"captcha" validate:"required"`
	CaptchaSecret string `json:"captcha_secret" validate:"required"`
}

// ProfileDTO 修改资料，字段为空表示不修改
type ProfileDTO struct {
	Name        *string `json:"name" validate:"omitempty,length=1:100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	RemovePhoto bool    `json:"removePhoto"`
}
