// Migration script for gorm-gen
package main

import (
	"fmt"

	"supercollab/config"
	"supercollab/orm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectPostgres() *gorm.DB {
	db, err := gorm.Open(postgres.Open(config.GetConfig().Postgres.DSN()))
	if err != nil {
		panic(fmt.Errorf("connect to postgres: %w", err))
	}
	return db
}

func main() {
	if err := orm.Migrate(ConnectPostgres()); err != nil {
		panic(err)
	}
}
