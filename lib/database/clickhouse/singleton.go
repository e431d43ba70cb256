package clickhouse

import (
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	ch "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"profileupdater/lib/env"
	"profileupdater/lib/utils/singleton"
)

var (
	DB       ch.Conn
	initDone <-chan struct{}
)

// Enabled reports whether the optional ClickHouse audit store is configured
func Enabled() bool {
	return env.ClickHousePort != ""
}

func init() {
	if !Enabled() {
		done := make(chan struct{})
		close(done)
		initDone = done
		return
	}

	initDone = singleton.InitAsync("CLICKHOUSE", 10, func() error {
		conn, err := clickhouse.Open(&clickhouse.Options{
			Addr: []string{fmt.Sprintf("%s:%s", env.ClickHouseHost, env.ClickHousePort)},
			Auth: clickhouse.Auth{
				Database: env.ClickHouseDB,
				Username: env.ClickHouseUser,
				Password: env.ClickHousePassword,
			},
		})
		if err != nil {
			return err
		}
		DB = conn
		return nil
	})
}

// Wait blocks until ClickHouse initialization is complete
func Wait() {
	<-initDone
}
