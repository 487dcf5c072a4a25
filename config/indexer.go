package config

type Indexer struct {
	Enabled  bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	CronSpec string `mapstructure:"CRON_SPEC" json:"cron_spec" yaml:"cron_spec"`
	// 單次批量上限
	BatchSize int `mapstructure:"BATCH_SIZE" json:"batch_size" yaml:"batch_size"`
	// 避免索引到仍在編輯中內容的延遲（秒）
	IndexingDelay int64 `mapstructure:"INDEXING_DELAY" json:"indexing_delay" yaml:"indexing_delay"`
	// 排程執行的時間預算（秒），0 表示不限
	TimeLimit int64 `mapstructure:"TIME_LIMIT" json:"time_limit" yaml:"time_limit"`
}
