package config

import "github.com/nmishr/flowgate/analytics"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	HttpPort        int
	StorageType     StorageType
	RedisConfig     RedisStorageConfig
	SessionConfig   SessionConfig
	RuntimeEndpoint string
	ModelEndpoint   string
	ModelName       string
	EnableScript    bool
	AnalyticsConfig analytics.DataCollectorConfig
	LogLevel        string
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type SessionConfig struct {
	ShardCount int
	TTLSeconds int
}
