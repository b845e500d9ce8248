// Package referencedata reads the GL account and expense-type lookup
// tables from the shared expense reference workbook. The workbook is the
// same spreadsheet employees use for manual submissions, so the
// worksheet names are part of the deployment contract.
package referencedata

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
)

// Required worksheet names.
const (
	SheetGLAccounts = "GL Accounts"
	SheetDataList   = "Data List"
)

// WorkbookProvider implements port.ReferenceDataProvider over an xlsx
// workbook on disk. The parsed tables are cached until Invalidate.
type WorkbookProvider struct {
	path   string
	logger *zap.Logger

	mu           sync.Mutex
	loaded       bool
	glAccounts   []port.GLAccount
	expenseTypes []string
}

// NewWorkbookProvider creates a new WorkbookProvider
func NewWorkbookProvider(path string, logger *zap.Logger) *WorkbookProvider {
	return &WorkbookProvider{
		path:   path,
		logger: logger,
	}
}

// GLAccounts returns the GL account options from the "GL Accounts" sheet.
func (p *WorkbookProvider) GLAccounts(ctx context.Context) ([]port.GLAccount, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]port.GLAccount, len(p.glAccounts))
	copy(out, p.glAccounts)
	return out, nil
}

// ExpenseTypes returns the standardized expense types from the "Data List" sheet.
func (p *WorkbookProvider) ExpenseTypes(ctx context.Context) ([]string, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.expenseTypes))
	copy(out, p.expenseTypes)
	return out, nil
}

// Invalidate drops the cache; the next read reloads from disk.
func (p *WorkbookProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.glAccounts = nil
	p.expenseTypes = nil
	p.logger.Info("Reference workbook cache invalidated", zap.String("path", p.path))
}

func (p *WorkbookProvider) ensureLoaded(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(p.path)
	if err != nil {
		return &port.ReferenceDataError{
			Msg: fmt.Sprintf(
				"Expense reference workbook could not be loaded. Expected file: %q. Required sheets: %s, %s. Ensure the workbook exists and is a valid .xlsx file on the application host.",
				p.path, SheetGLAccounts, SheetDataList),
			Err: err,
		}
	}
	defer f.Close()

	accounts, err := p.readGLAccounts(f)
	if err != nil {
		return err
	}
	types, err := p.readExpenseTypes(f)
	if err != nil {
		return err
	}

	p.glAccounts = accounts
	p.expenseTypes = types
	p.loaded = true
	p.logger.Info("Reference workbook loaded",
		zap.String("path", p.path),
		zap.Int("gl_accounts", len(accounts)),
		zap.Int("expense_types", len(types)))
	return nil
}

func (p *WorkbookProvider) readGLAccounts(f *excelize.File) ([]port.GLAccount, error) {
	rows, err := p.sheetRows(f, SheetGLAccounts)
	if err != nil {
		return nil, err
	}
	var accounts []port.GLAccount
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		account := strings.TrimSpace(cell(row, 0))
		if account == "" {
			continue
		}
		label := strings.TrimSpace(cell(row, 1))
		display := account
		if label != "" {
			display = account + " - " + label
		}
		accounts = append(accounts, port.GLAccount{Account: account, Label: display})
	}
	return accounts, nil
}

func (p *WorkbookProvider) readExpenseTypes(f *excelize.File) ([]string, error) {
	rows, err := p.sheetRows(f, SheetDataList)
	if err != nil {
		return nil, err
	}
	var types []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if candidate := strings.TrimSpace(cell(row, 0)); candidate != "" {
			types = append(types, candidate)
		}
	}
	return types, nil
}

func (p *WorkbookProvider) sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &port.ReferenceDataError{
			Msg: fmt.Sprintf(
				"Expense reference workbook is missing required sheet data. Expected file: %q. Required sheets: %s, %s. Verify the deployed workbook matches the template structure.",
				p.path, SheetGLAccounts, SheetDataList),
			Err: err,
		}
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Verify interface compliance
var _ port.ReferenceDataProvider = (*WorkbookProvider)(nil)
