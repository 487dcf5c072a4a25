package config

type Configuration struct {
	App         App             `mapstructure:"APP" json:"app" yaml:"app"`
	Redis       Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	Log         Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	MongoDB     MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Telemetry   TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd     Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
	AI          AI              `mapstructure:"AI" json:"ai" yaml:"ai"`
	Consumption Consumption     `mapstructure:"CONSUMPTION" json:"consumption" yaml:"consumption"`
	Indexer     Indexer         `mapstructure:"INDEXER" json:"indexer" yaml:"indexer"`
}
