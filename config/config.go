package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	ApiServer ServerConfigs
	Auth      AuthConfigs
	Store     StoreConfigs
	Mongo     MongoConfigs
	Database  DatabaseConfigs
	Redis     RedisConfigs
	Feed      FeedConfigs
}

type ServerConfigs struct {
	Host string
	Port string

	DefaultLimit int
	MaxLimit     int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret     string
	TokenExpiration time.Duration
}

// StoreConfigs selects the document-store backend. Backend is "mongo",
// "sql", or "memory".
type StoreConfigs struct {
	Backend string
}

type MongoConfigs struct {
	URI      string
	Database string
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type FeedConfigs struct {
	// DefaultLimit bounds a single activity-feed page.
	DefaultLimit int

	// SyncScanLimit bounds how many existing activities the backfill
	// synchronizer loads to build its dedup keys.
	SyncScanLimit int
}
