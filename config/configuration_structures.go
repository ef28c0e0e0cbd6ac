package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DocumentServerConfig : внешний сервер документов (редактор + сервис конвертации).
// Secret — общий секрет для подписи/проверки JWT; пустая строка отключает проверку
// (осознанная операционная политика для закрытых контуров).
type DocumentServerConfig struct {
	URL         string `yaml:"url"`
	Secret      string `yaml:"secret"`
	CallbackURL string `yaml:"callbackUrl"`
}

// WebhookConfig : поведение обработчика callback от сервера документов.
// SyncSave = true — сохранять до отправки подтверждения (редактор увидит ошибку),
// false — подтверждать сразу, сохранять в фоне.
type WebhookConfig struct {
	SyncSave bool `yaml:"syncSave"`
}

type ConversionConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
	MaxAttempts     int `yaml:"maxAttempts"`
}

type TTL struct {
	S3AndRedis int `yaml:"s3AndRedis"`
}
