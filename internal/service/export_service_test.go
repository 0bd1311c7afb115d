package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type fakeDumper struct {
	dumps map[string]models.TableDump
	err   error
}

func (f fakeDumper) DumpTable(_ context.Context, table string) (models.TableDump, error) {
	if f.err != nil {
		return models.TableDump{}, f.err
	}
	if d, ok := f.dumps[table]; ok {
		return d, nil
	}
	return models.TableDump{Table: table, Columns: []string{"id"}, Rows: [][]string{}}, nil
}

func readWorkbook(t *testing.T, raw []byte) map[string][][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	out := map[string][][]string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		out[sheet] = rows
	}
	return out
}

func TestWorkbookHasOneSheetPerTable(t *testing.T) {
	dumper := fakeDumper{dumps: map[string]models.TableDump{
		"births": {
			Table:   "births",
			Columns: []string{"id", "enclosure", "pen", "litter_number", "born_count"},
			Rows:    [][]string{{"1", "3", "2", "1", "12"}},
		},
	}}
	svc := NewExportService(dumper, nil, nil)

	raw, err := svc.Workbook(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Breeding Stock", "Births", "Weanings", "Weaned Deaths", "Sales", "Expenses"}, f.GetSheetList())

	sheets := readWorkbook(t, raw)
	assert.Equal(t, [][]string{{"id", "enclosure", "pen", "litter_number", "born_count"}, {"1", "3", "2", "1", "12"}}, sheets["Births"])
	assert.Equal(t, [][]string{{"id"}}, sheets["Expenses"])
}

func TestWorkbookIsRepeatable(t *testing.T) {
	dumper := fakeDumper{dumps: map[string]models.TableDump{
		"sales": {Table: "sales", Columns: []string{"id", "sale_type", "sale_amount"}, Rows: [][]string{{"1", "weaned", "45.50"}, {"2", "cull", "80.00"}}},
	}}
	svc := NewExportService(dumper, nil, nil)

	first, err := svc.Workbook(context.Background())
	require.NoError(t, err)
	second, err := svc.Workbook(context.Background())
	require.NoError(t, err)

	assert.Equal(t, readWorkbook(t, first), readWorkbook(t, second))
}

func TestWorkbookPropagatesDumpFailure(t *testing.T) {
	svc := NewExportService(fakeDumper{err: errors.New("permission denied")}, nil, nil)
	_, err := svc.Workbook(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
