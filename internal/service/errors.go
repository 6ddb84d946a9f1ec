package service

import "errors"

// 业务层的哨兵错误，handler统一把它们翻译成HTTP状态码
var (
	// 400
	ErrInvalidTokenFormat   = errors.New("令牌格式不正确")
	ErrEmailTaken           = errors.New("该邮箱已注册")
	ErrInvalidCredentials   = errors.New("错误的登录信息")
	ErrRefreshTokenRequired = errors.New("请提供Refresh令牌")
	ErrAccessTokenRequired  = errors.New("请提供Access令牌")
	ErrGenreExists          = errors.New("该类型已存在")
	ErrMovieTitleTaken      = errors.New("已存在同名电影")
	ErrDirectorInUse        = errors.New("该导演仍有关联电影，无法删除")
	ErrGenreInUse           = errors.New("有电影只剩这一个类型，无法删除")
	ErrPasswordTooLong      = errors.New("密码不能超过72字节")
	ErrInvalidRole          = errors.New("无效的角色")
	ErrInvalidCursor        = errors.New("无效的游标")
	ErrInvalidOrder         = errors.New("排序格式应为 字段_ASC 或 字段_DESC")
	ErrInvalidTake          = errors.New("take必须在1到100之间")
	ErrNoGenres             = errors.New("至少需要一个类型")
	ErrUnsupportedFile      = errors.New("只能上传mp4文件")
	ErrFileTooLarge         = errors.New("文件大小超出限制")

	// 401
	ErrInvalidToken = errors.New("无效的令牌")
	ErrTokenExpired = errors.New("令牌已过期")
	ErrTokenBlocked = errors.New("令牌已被封禁")

	// 403
	ErrForbidden = errors.New("没有访问权限")

	// 404
	ErrUserNotFound     = errors.New("不存在的用户")
	ErrMovieNotFound    = errors.New("不存在的电影")
	ErrDirectorNotFound = errors.New("不存在的导演")
	ErrGenreNotFound    = errors.New("不存在的类型")
	ErrFileNotFound     = errors.New("不存在的文件")
)
