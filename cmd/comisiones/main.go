package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/clock"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/dlsistemas/comisiones/internal/migration"
	"github.com/dlsistemas/comisiones/internal/observability"
	"github.com/dlsistemas/comisiones/internal/server"
	"github.com/dlsistemas/comisiones/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
