package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Income Report"

// periodKeyLen is how much of an ISO date identifies a period bucket.
var periodKeyLen = map[string]int{
	models.PeriodDaily:   len(dateutil.LayoutISO),
	models.PeriodMonthly: len(dateutil.LayoutMonth),
	models.PeriodYearly:  len("2006"),
}

type ReportService struct {
	db *sql.DB
}

func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{db: db}
}

// Aggregate buckets income lines by period, oldest first. Expense is stored
// signed, so net is income + expense.
func Aggregate(incomes []models.Income, period string) (*models.IncomeReport, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	keyLen, ok := periodKeyLen[period]
	if !ok {
		return nil, fmt.Errorf("period %q: %w", period, ErrInvalidArgument)
	}

	buckets := map[string]*models.ReportRow{}
	for _, in := range incomes {
		key := in.Date
		if len(key) >= keyLen {
			key = key[:keyLen]
		}
		row, ok := buckets[key]
		if !ok {
			row = &models.ReportRow{Label: key}
			buckets[key] = row
		}
		row.Income += in.Income
		row.Expense += in.Expense
	}

	report := &models.IncomeReport{Period: period, Rows: make([]models.ReportRow, 0, len(buckets))}
	for _, row := range buckets {
		row.Net = row.Income + row.Expense
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Label < report.Rows[j].Label })

	report.Totals.Label = "Total"
	for _, row := range report.Rows {
		report.Totals.Income += row.Income
		report.Totals.Expense += row.Expense
	}
	report.Totals.Net = report.Totals.Income + report.Totals.Expense
	return report, nil
}

// Income builds the report for a period from every income line.
func (s *ReportService) Income(ctx context.Context, period string) (*models.IncomeReport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, income, expense FROM incomes`)
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}
	defer rows.Close()

	var incomes []models.Income
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(&in.Date, &in.Income, &in.Expense); err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Aggregate(incomes, period)
}

// WriteXLSX renders a report as a single-sheet workbook.
func WriteXLSX(report *models.IncomeReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Period", "Income", "Expense", "Net"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheet, cell, h)
	}

	rows := append(append([]models.ReportRow{}, report.Rows...), report.Totals)
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), r.Label)
		f.SetCellValue(reportSheet, fmt.Sprintf("B%d", row), r.Income)
		f.SetCellValue(reportSheet, fmt.Sprintf("C%d", row), r.Expense)
		f.SetCellValue(reportSheet, fmt.Sprintf("D%d", row), r.Net)
	}

	return f.Write(w)
}
