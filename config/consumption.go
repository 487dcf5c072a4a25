package config

type Consumption struct {
	// 採樣排程
	CronSpec string `mapstructure:"CRON_SPEC" json:"cron_spec" yaml:"cron_spec"`
	// current 樣本保留時間（秒）
	RetentionPeriod int64 `mapstructure:"RETENTION_PERIOD" json:"retention_period" yaml:"retention_period"`
	// 上游用量 API
	BaseURL string `mapstructure:"BASE_URL" json:"base_url" yaml:"base_url"`
	APIKey  string `mapstructure:"API_KEY" json:"api_key" yaml:"api_key"`
	// 請求逾時（秒）
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}
