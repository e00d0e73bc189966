// Description: 生成所有表的 CRUD 代码
package main

import (
	"fmt"

	"supercollab/config"
	"supercollab/dao/model"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
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
	g := gen.NewGenerator(gen.Config{
		// dao/query holds the hand-written store
		OutPath: "./dao/gen",

		// gen.WithDefaultQuery：生成一个全局Query对象Q
		// gen.WithQueryInterface：生成Query接口
		Mode: gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.UseDB(ConnectPostgres())

	g.ApplyBasic(
		model.Account{},
		model.ProgramEvent{},
	)

	g.Execute()
}
