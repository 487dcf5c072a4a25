package config

type AI struct {
	// 對外部 AI 服務的請求逾時（秒）
	RequestTimeout int64 `mapstructure:"REQUEST_TIMEOUT" json:"request_timeout" yaml:"request_timeout"`
	// 是否驗證外部服務憑證
	VerifySSL bool `mapstructure:"VERIFY_SSL" json:"verify_ssl" yaml:"verify_ssl"`
	// 用量視窗長度（秒）
	MaxRequestsPeriod int64 `mapstructure:"MAX_REQUESTS_PERIOD" json:"max_requests_period" yaml:"max_requests_period"`
	// purpose -> role -> 視窗內請求上限，0 表示封鎖，-1 表示不限
	MaxRequests map[string]map[string]int64 `mapstructure:"MAX_REQUESTS" json:"max_requests" yaml:"max_requests"`
	// 背景索引等系統作業使用的使用者識別
	SystemUserID string `mapstructure:"SYSTEM_USER_ID" json:"system_user_id" yaml:"system_user_id"`
}
