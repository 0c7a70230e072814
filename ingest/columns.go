package ingest

import (
	"strings"
	"unicode"
)

// Field is a logical column the importer understands.
type Field string

const (
	FieldStockName        Field = "stockName"
	FieldTradeDate        Field = "tradeDate"
	FieldTradeType        Field = "tradeType"
	FieldExecutionPrice   Field = "executionPrice"
	FieldExecutedQuantity Field = "executedQuantity"
	FieldMemo             Field = "memo"
	FieldPurchasePrice    Field = "purchasePrice"
)

// columnAliases lists the header texts accepted for each field, Korean and
// English. Order matters: a header cell is assigned to the first field whose
// alias it matches.
var columnAliases = []struct {
	field   Field
	aliases []string
}{
	{FieldStockName, []string{"종목", "종목명", "주식", "Stock", "Ticker", "Item", "stock_name", "종목 이름"}},
	{FieldTradeDate, []string{"날짜", "거래일", "거래일자", "일시", "Date", "TradeDate", "trade_date"}},
	{FieldTradeType, []string{"구분", "매매", "타입", "Action", "Type", "Side", "매수/매도", "매수매도", "trade_type", "매매구분"}},
	{FieldExecutionPrice, []string{"단가", "체결가", "가격", "Price", "AvgPrice", "체결 단가", "체결단가"}},
	{FieldExecutedQuantity, []string{"수량", "수량(주)", "Quantity", "Qty", "Amount", "체결수량", "체결 수량"}},
	{FieldMemo, []string{"메모", "사유", "매매사유", "비고", "Note", "Reason", "매매 사유"}},
	{FieldPurchasePrice, []string{"매입가", "매수가", "매수단가", "평단가", "평균단가", "PurchasePrice", "BuyPrice", "CostBasis", "purchase_price"}},
}

// aliasIndex maps a normalized alias to its field.
var aliasIndex = func() map[string]Field {
	m := make(map[string]Field)
	for _, entry := range columnAliases {
		for _, alias := range entry.aliases {
			key := normalizeHeader(alias)
			if _, dup := m[key]; !dup {
				m[key] = entry.field
			}
		}
	}
	return m
}()

// ColumnMap maps a logical field to its position in a row.
type ColumnMap map[Field]int

// MapColumns resolves header cells to logical fields. Fields with no matching
// header are left out; when several cells match one field the first one wins.
func MapColumns(header []string) ColumnMap {
	cols := make(ColumnMap)
	for i, cell := range header {
		field, ok := aliasIndex[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := cols[field]; !seen {
			cols[field] = i
		}
	}
	return cols
}

// Value returns the cell for field, or false when the field is unmapped or
// the row is too short.
func (c ColumnMap) Value(row []string, field Field) (string, bool) {
	i, ok := c[field]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}
