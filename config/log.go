package config

type Log struct {
	// 日誌等級 debug / info / warn / error
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
}
