package app

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	HTTPAddr     string
	MetricsAddr  string
	PostgresDSN  string
	KafkaBrokers string
}

// DefaultConfig возвращает базовые адреса для HTTP API и метрик.
// PostgresDSN пустой: без него приложение работает на in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
	}
}
