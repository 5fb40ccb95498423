package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// progressColumns is the column order of the user_progress mirror table.
var progressColumns = []string{"user_id", "log_date", "weight_kg", "logged_at"}

// CatalogSync appends logged progress to a MatrixOne catalog table so it
// can be queried next to other catalog data. It satisfies ProgressMirror.
type CatalogSync struct {
	raw      *sdk.RawClient
	sdk      *sdk.SDKClient
	database sdk.DatabaseID
	table    sdk.TableID
	timeout  time.Duration
}

func NewCatalogSync(raw *sdk.RawClient, databaseID, progressTableID int) *CatalogSync {
	return &CatalogSync{
		raw:      raw,
		sdk:      sdk.NewSDKClient(raw),
		database: sdk.DatabaseID(databaseID),
		table:    sdk.TableID(progressTableID),
		timeout:  30 * time.Second,
	}
}

func (s *CatalogSync) MirrorProgress(ctx context.Context, entry model.ProgressEntry) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	name := fmt.Sprintf("progress_%d_%s.csv", entry.UserID, entry.LogDate.Format("20060102"))
	s.importCSV(ctx, progressCSV(time.Now(), entry), name)
}

func (s *CatalogSync) importCSV(ctx context.Context, csv, fileName string) {
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		logger.WarnCtx(ctx, "catalog.upload_failed", "table", s.table, "file", fileName, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		logger.WarnCtx(ctx, "catalog.upload_empty", "table", s.table, "file", fileName)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.database,
		TableID:          s.table,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     progressMapping(),
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		logger.WarnCtx(ctx, "catalog.import_failed", "table", s.table, "file", fileName, "err", err)
		return
	}
	logger.InfoCtx(ctx, "catalog.import_ok", "table", s.table, "file", fileName)
}

func progressMapping() []sdk.FileAndTableColumnMapping {
	mapping := make([]sdk.FileAndTableColumnMapping, len(progressColumns))
	for i, col := range progressColumns {
		mapping[i] = sdk.FileAndTableColumnMapping{TableColumn: col, Column: col, ColNumInFile: int32(i + 1)}
	}
	return mapping
}

// progressCSV renders entries in progressColumns order, one per line.
func progressCSV(loggedAt time.Time, entries ...model.ProgressEntry) string {
	var buf bytes.Buffer
	ts := loggedAt.UTC().Format("2006-01-02 15:04:05")
	for _, e := range entries {
		fmt.Fprintf(&buf, "%d,%s,%s,%s\n",
			e.UserID, e.LogDate.Format(model.DateLayout), strconv.FormatFloat(e.WeightKg, 'f', -1, 64), ts)
	}
	return buf.String()
}
