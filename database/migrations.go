package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/models"
)

type indexDef struct {
	name    string
	columns string
	where   string // partial index predicate, postgres and sqlite only
}

var tradeLogIndexes = []indexDef{
	// journal and per-stock lookups
	{name: "idx_trade_logs_user_stock", columns: "user_id, stock_name"},
	// monthly breakdown only reads realized sells
	{name: "idx_trade_logs_user_sells", columns: "user_id, trade_date", where: "direction = 'SELL'"},
}

// OptimizeIndexes creates the trade_logs indexes AutoMigrate cannot express.
func OptimizeIndexes(db *gorm.DB) error {
	partial := db.Dialector.Name() != "mysql"

	for _, idx := range tradeLogIndexes {
		if db.Migrator().HasIndex(&models.TradeLog{}, idx.name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON trade_logs (%s)", idx.name, idx.columns)
		if idx.where != "" && partial {
			stmt += " WHERE " + idx.where
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
