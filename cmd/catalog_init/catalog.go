package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/glscharan9/ai-health-companion/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

const progressTable = "user_progress"

// progressColumns must stay in the column order CatalogSync uploads.
var progressColumns = []sdk.Column{
	{Name: "user_id", Type: "INT", Comment: "users.id in the application database"},
	{Name: "log_date", Type: "DATE", Comment: "calendar day the weight was logged for"},
	{Name: "weight_kg", Type: "DOUBLE", Comment: "body weight in kilograms"},
	{Name: "logged_at", Type: "DATETIME", Comment: "UTC time the entry was mirrored"},
}

// initCatalog is idempotent: existing objects are discovered, not recreated.
func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, sdk.TableID, error) {
	dbID, err := ensureDatabase(ctx, client, catalogID, dbName)
	if err != nil {
		return 0, 0, err
	}

	resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
		DatabaseID: dbID,
		Name:       progressTable,
		Columns:    progressColumns,
		Comment:    "daily weight log mirrored from the diet planner",
	})
	if err != nil {
		if isDuplicate(err) {
			logger.Info("catalog: table already exists", "name", progressTable)
			return dbID, 0, nil
		}
		return 0, 0, fmt.Errorf("create table %s: %w", progressTable, err)
	}
	logger.Info("catalog: table created", "name", progressTable, "id", resp.TableID)
	return dbID, resp.TableID, nil
}

func ensureDatabase(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "AI health companion progress mirror",
	})
	if err == nil {
		logger.Info("catalog: database created", "id", resp.DatabaseID)
		return resp.DatabaseID, nil
	}
	if !isDuplicate(err) {
		return 0, fmt.Errorf("create database: %w", err)
	}

	logger.Info("catalog: database already exists, discovering ID", "name", dbName)
	list, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range list.List {
		if db.DatabaseName == dbName {
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	for _, marker := range []string{"duplicate", "already exist", "exists", "conflict"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
