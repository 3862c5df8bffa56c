package constants

const (
	MESSAGE_MAX_LEN            = 4096 // 消息内容最大长度
	DEFAULT_MESSAGE_PAGE_LIMIT = 50   // 消息分页默认条数
	MAX_MESSAGE_PAGE_LIMIT     = 200  // 消息分页最大条数
	DEFAULT_SEARCH_LIMIT       = 20   // 用户搜索默认条数
	REDIS_TIMEOUT              = 1    // redis timeout (分钟)
	REFRESH_TOKEN_EXPIRY_HOURS = 168  // Refresh Token 有效期（小时），168小时 = 7天
)
