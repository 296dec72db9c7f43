package export

import (
	"encoding/csv"
	"io"

	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/pkg/format"
)

// CSV writers for the report pages. Cells always come from a row's Export
// form, so currency values carry the ASCII "PHP" prefix instead of the
// peso glyph, which some spreadsheet tools mangle.

// WriteTable serialises one table: a title row, the header row, then data
// rows in column order.
func WriteTable(w io.Writer, table service.Table) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	defer writer.Flush()

	if table.Name != "" {
		if err := writer.Write([]string{table.Name}); err != nil {
			return err
		}
	}
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = row.Export[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteKPIs serialises summary cards as Metric,Value pairs.
func WriteKPIs(w io.Writer, kpis []service.KPI) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	for _, kpi := range kpis {
		if err := writer.Write([]string{kpi.Title, exportValue(kpi.Value)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSales emits the full sales report: KPI block, blank line, then the
// top products table.
func WriteSales(w io.Writer, view *service.SalesView) error {
	kpis := []service.KPI{view.Revenue.KPI, view.Transactions, view.AvgTransaction, view.TopPayment}
	if err := WriteKPIs(w, kpis); err != nil {
		return err
	}
	if err := blankLine(w); err != nil {
		return err
	}
	return WriteTable(w, view.TopProducts)
}

func WriteProfitability(w io.Writer, view *service.ProfitabilityView) error {
	kpis := []service.KPI{view.TotalGrossProfit, view.AverageMargin, view.MostProfitable}
	if err := WriteKPIs(w, kpis); err != nil {
		return err
	}
	if err := blankLine(w); err != nil {
		return err
	}
	return WriteTable(w, view.Products)
}

func WriteInventory(w io.Writer, view *service.InventoryView) error {
	kpis := []service.KPI{view.TotalProducts, view.InventoryValue, view.LowStock, view.OutOfStock}
	if err := WriteKPIs(w, kpis); err != nil {
		return err
	}
	if err := blankLine(w); err != nil {
		return err
	}
	if err := WriteTable(w, view.ByCategory); err != nil {
		return err
	}
	if err := blankLine(w); err != nil {
		return err
	}
	return WriteTable(w, view.Attention)
}

func WriteTransactions(w io.Writer, view *service.TransactionsView) error {
	return WriteTable(w, view.History)
}

func blankLine(w io.Writer) error {
	_, err := w.Write([]byte("\r\n"))
	return err
}

func exportValue(v string) string {
	return format.DisplayToExport(v)
}
