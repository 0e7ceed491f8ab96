package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	CatalogPath             string  `envconfig:"CATALOG_PATH" default:"catalog.json"`
	FilesDir                string  `envconfig:"FILES_DIR" default:"files"`
	StaticDir               string  `envconfig:"STATIC_DIR" default:"public"`
	GlobalRateLimit         int     `envconfig:"GLOBAL_RATE_LIMIT" default:"240"`   // requests per minute per client
	PurchaseRateLimit       int     `envconfig:"PURCHASE_RATE_LIMIT" default:"5"`   // purchase requests per minute per client
	MaxOutstandingInvoices  int     `envconfig:"MAX_OUTSTANDING_INVOICES" default:"100"`
	DefaultInvoiceExpiry    int64   `envconfig:"DEFAULT_INVOICE_EXPIRY" default:"3600"` // in seconds, used when the gateway omits one
	TokenExpiry             int64   `envconfig:"TOKEN_EXPIRY" default:"3600"`           // in seconds
	SweepInterval           int     `envconfig:"SWEEP_INTERVAL" default:"3600"`         // in seconds
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	RabbitMQUri             string  `envconfig:"RABBITMQ_URI"`
	RabbitMQExchange        string  `envconfig:"RABBITMQ_PURCHASE_EXCHANGE" default:"satshop_purchase"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
}
