package cmd

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort           string
	StorageDriver      string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	ZonesFile          string
	ServiceOpensAt     string
	ServiceClosesAt    string
	ServiceTimezone    string
	OvenCeilingPerSlot string
	AMQPURL            string
	AMQPExchange       string
	JobsSchedule       string
	LogLevel           string
}
