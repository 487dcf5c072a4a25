package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY    = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS  = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS = 40002 // 400 - 無效的請求標頭
	INVALID_OPTIONS     = 40003 // 400 - 不被接受的請求選項
	INVALID_CONTEXT     = 40004 // 400 - 請求情境無法解析
	UNSUPPORTED_ACTION  = 40005 // 400 - 向量庫不支援此操作

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED       = 40100 // 401 - 未授權
	INVALID_SESSION    = 40101 // 401 - 會話失效
	FORBIDDEN          = 40301 // 403 - 禁止訪問
	MISSING_CAPABILITY = 40302 // 403 - 缺少使用權限
	TENANT_DISABLED    = 40303 // 403 - 租戶未啟用
	USER_LOCKED        = 40304 // 403 - 使用者已鎖定
	USER_NOT_CONFIRMED = 40305 // 403 - 使用者未確認條款
	PURPOSE_DISABLED   = 40306 // 403 - 此用途未啟用
	SCOPE_RESTRICTED   = 40307 // 403 - 超出允許的使用範圍

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 40900 ~ 40999: 重複請求 (409 系列)
	ITEM_CONFLICT = 40900 // 409 - 項目識別碼已存在

	// 42900 ~ 42999: 流量限制錯誤 (429 系列)
	RATE_LIMIT_EXCEEDED = 42900 // 429 - 速率限制超過
	QUOTA_EXCEEDED      = 42901 // 429 - 視窗內請求額度用盡

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	DATABASE_ERROR      = 50001 // 500 - 資料庫錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)

	// 50200 ~ 50499: 外部請求錯誤 (502 504 系列)
	EXTERNAL_REQUEST_ERROR         = 50200 // 502 - 外部 API 請求錯誤
	EXTERNAL_RESPONSE_FORMAT_ERROR = 50201 // 502 - 外部 API 回應格式錯誤
	GATEWAY_TIMEOUT                = 50400 // 504 - 外部 API 超時
	UNSUPPORTED_VERSION            = 50401 // 505 - 不支援的 API 版本
)
