// Command catalog_init creates the MatrixOne catalog database and the
// user_progress mirror table, then registers NL2SQL knowledge for it.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/glscharan9/ai-health-companion/internal/config"
	"github.com/glscharan9/ai-health-companion/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	skipKnowledge := flag.Bool("skip-knowledge", false, "do not register NL2SQL knowledge")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	client, err := cfg.NewRawClient()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	catalogID := sdk.CatalogID(cfg.MOI.Catalog.CatalogID)
	if catalogID == 0 {
		catalogID = 1
	}

	dbID, tableID, err := initCatalog(ctx, client, catalogID, cfg.MOI.Catalog.DatabaseName)
	if err != nil {
		log.Fatal("catalog init failed: ", err)
	}
	logger.Info("catalog ready; set moi.catalog.database_id and moi.catalog.progress_table_id",
		"database_id", dbID, "progress_table_id", tableID)

	if !*skipKnowledge {
		if err := initKnowledge(ctx, client); err != nil {
			log.Fatal("knowledge init failed: ", err)
		}
	}

	logger.Info("catalog_init done")
}
