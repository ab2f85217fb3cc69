package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/youome/internal/models"
)

// dialect holds what differs between the supported databases.
type dialect struct {
	name       string
	driverName string
	// dollarParams rewrites ? placeholders to $1, $2, ...
	dollarParams bool
	schema       []string
	upsertDebt   string
}

const debtColumns = "group_id, debtor_id, creditor_id, amount, currency, settled, created_at, updated_at, settled_at"

const insertDebt = "INSERT INTO debts (" + debtColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

var sqliteDialect = &dialect{
	name:       "sqlite",
	driverName: "sqlite",
	schema:     sqliteSchema,
	upsertDebt: insertDebt + `
		ON CONFLICT (group_id, debtor_id, creditor_id) DO UPDATE SET
			amount = excluded.amount,
			currency = excluded.currency,
			settled = excluded.settled,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			settled_at = excluded.settled_at`,
}

var postgresDialect = &dialect{
	name:         "postgres",
	driverName:   "postgres",
	dollarParams: true,
	schema:       postgresSchema,
	upsertDebt: insertDebt + `
		ON CONFLICT (group_id, debtor_id, creditor_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			settled = EXCLUDED.settled,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			settled_at = EXCLUDED.settled_at`,
}

var mysqlDialect = &dialect{
	name:       "mysql",
	driverName: "mysql",
	schema:     mysqlSchema,
	upsertDebt: insertDebt + `
		ON DUPLICATE KEY UPDATE
			amount = VALUES(amount),
			currency = VALUES(currency),
			settled = VALUES(settled),
			created_at = VALUES(created_at),
			updated_at = VALUES(updated_at),
			settled_at = VALUES(settled_at)`,
}

func dialectFor(driver string) (*dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	case "postgres", "postgresql", "pgx":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", models.ErrInvalidInput, driver)
	}
}

// rebind converts ? placeholders for dialects that number their params.
func (d *dialect) rebind(query string) string {
	if !d.dollarParams {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
