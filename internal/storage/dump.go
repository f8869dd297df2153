package storage

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// KnownTables is the allow-list for the diagnostic table dump. Raw table
// names are interpolated into SQL, so nothing outside this set is accepted.
var KnownTables = []string{
	"PRODUCT", "CART", "CART_ITEM", "ORDERS", "ORDERS_ITEM", "AUTHENTICATOR",
}

func IsKnownTable(name string) bool {
	for _, t := range KnownTables {
		if t == name {
			return true
		}
	}
	return false
}

// DumpTable reads up to limit rows of a known table, returning column names
// and stringified cell values.
func DumpTable(db *gorm.DB, table string, limit int) ([]string, [][]string, error) {
	if !IsKnownTable(table) {
		return nil, nil, fmt.Errorf("unknown table %q", table)
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Raw(fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit)).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var data [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}
		record := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				record[i] = v.String
			} else {
				record[i] = "NULL"
			}
		}
		data = append(data, record)
	}
	return cols, data, rows.Err()
}

// CountRows returns the row count of a known table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	if !IsKnownTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	if err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
