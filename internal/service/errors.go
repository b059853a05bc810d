package service

import "errors"

var (
	// ErrInvalidPriceChange 降价检测缺少 phone_id 或新价格
	ErrInvalidPriceChange = errors.New("phone id and new price are required")
	// ErrNotEnoughPhones 对比至少需要两台已知手机
	ErrNotEnoughPhones = errors.New("at least two known phones are required")
	// ErrPhoneNotFound 手机不存在
	ErrPhoneNotFound = errors.New("phone not found")
	// ErrArticleNotFound 文章不存在或未发布
	ErrArticleNotFound = errors.New("article not found")
	// ErrAlertNotFound 订阅不存在（退订 token 无效）
	ErrAlertNotFound = errors.New("alert not found")
	// ErrEmptyQuery 搜索关键字为空
	ErrEmptyQuery = errors.New("search query is required")
	// ErrInvalidPhone 后台录入的手机数据不完整
	ErrInvalidPhone = errors.New("phone name and slug are required")
)
