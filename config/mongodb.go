package config

type MongoDB struct {
	URI string `mapstructure:"URI" json:"uri" yaml:"uri"`
	// 附加於 URI 之後的連線選項字串
	Options string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
}
