package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/export"
)

type tableDumper interface {
	DumpTable(ctx context.Context, table string) (models.TableDump, error)
}

type workbookRenderer interface {
	Render(sheets []export.Dataset) ([]byte, error)
}

// WorkbookSheet maps a table to its sheet title.
type WorkbookSheet struct {
	Table string
	Title string
}

// DefaultWorkbookSheets lists the exported tables in sheet order.
var DefaultWorkbookSheets = []WorkbookSheet{
	{Table: "breeding_stock", Title: "Breeding Stock"},
	{Table: "births", Title: "Births"},
	{Table: "weanings", Title: "Weanings"},
	{Table: "weaned_deaths", Title: "Weaned Deaths"},
	{Table: "sales", Title: "Sales"},
	{Table: "expenses", Title: "Expenses"},
}

// ExportService produces the full-data spreadsheet.
type ExportService struct {
	tables   tableDumper
	renderer workbookRenderer
	sheets   []WorkbookSheet
	logger   *zap.Logger
}

// NewExportService wires the export service.
func NewExportService(tables tableDumper, renderer workbookRenderer, logger *zap.Logger) *ExportService {
	if renderer == nil {
		renderer = export.NewXLSXExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{tables: tables, renderer: renderer, sheets: DefaultWorkbookSheets, logger: logger}
}

// Workbook dumps every record table into one sheet each. Export is
// read-only; running it twice on unchanged data yields the same cells.
func (s *ExportService) Workbook(ctx context.Context) ([]byte, error) {
	datasets := make([]export.Dataset, 0, len(s.sheets))
	for _, sheet := range s.sheets {
		dump, err := s.tables.DumpTable(ctx, sheet.Table)
		if err != nil {
			s.logger.Error("dump table failed", zap.String("table", sheet.Table), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export data")
		}
		datasets = append(datasets, dumpToDataset(sheet.Title, dump))
	}

	out, err := s.renderer.Render(datasets)
	if err != nil {
		s.logger.Error("render workbook failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export data")
	}
	return out, nil
}

func dumpToDataset(title string, dump models.TableDump) export.Dataset {
	data := export.Dataset{Name: title, Headers: dump.Columns, Rows: make([]map[string]string, 0, len(dump.Rows))}
	for _, record := range dump.Rows {
		row := make(map[string]string, len(dump.Columns))
		for i, col := range dump.Columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
