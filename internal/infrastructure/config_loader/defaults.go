package loader

import "time"

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// defaultEnvironment is used when APP_ENV is missing.
	defaultEnvironment = "development"
	// defaultServiceName is used when SERVICE_NAME is missing.
	defaultServiceName = "lingo-services-person"
	// defaultServiceVersion is used when SERVICE_VERSION is missing.
	defaultServiceVersion = "dev"
	// defaultHTTPAddr is the listen address when server.http.addr is empty.
	defaultHTTPAddr = "0.0.0.0:8080"
	// defaultHTTPTimeout bounds each HTTP request.
	defaultHTTPTimeout = 5 * time.Second
	// defaultMongoDatabase matches the database the dataset is imported into.
	defaultMongoDatabase = "person"
	// defaultMongoCollection matches the collection the dataset is imported into.
	defaultMongoCollection = "ThePerson"
	// defaultMongoConnectTimeout bounds the startup connection attempt.
	defaultMongoConnectTimeout = 10 * time.Second
	// defaultMetricsPath is where Prometheus scrapes.
	defaultMetricsPath = "/metrics"
	// defaultLogLevel is applied when log.level is empty.
	defaultLogLevel = "info"
)

// applyDefaults 为缺省字段填充默认值。
func applyDefaults(bc *Bootstrap) {
	if bc == nil {
		return
	}
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	if bc.Server.HTTP.Timeout <= 0 {
		bc.Server.HTTP.Timeout = Duration(defaultHTTPTimeout)
	}
	if bc.Data.Driver == "" {
		bc.Data.Driver = DriverMongoDB
	}
	if bc.Data.MongoDB.Database == "" {
		bc.Data.MongoDB.Database = defaultMongoDatabase
	}
	if bc.Data.MongoDB.Collection == "" {
		bc.Data.MongoDB.Collection = defaultMongoCollection
	}
	if bc.Data.MongoDB.ConnectTimeout <= 0 {
		bc.Data.MongoDB.ConnectTimeout = Duration(defaultMongoConnectTimeout)
	}
	if bc.Observability.Metrics.Path == "" {
		bc.Observability.Metrics.Path = defaultMetricsPath
	}
	if bc.Log.Level == "" {
		bc.Log.Level = defaultLogLevel
	}
}
