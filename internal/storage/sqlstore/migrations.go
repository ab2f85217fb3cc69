package sqlstore

import (
	"context"
	"fmt"
)

// Each schema is a list of statements so drivers that reject multi-statement
// Exec calls (MySQL without multiStatements) can run it. Groups live in
// ledger_groups because GROUPS is reserved in MySQL 8.
// group_members.position keeps members in join order; the first member
// absorbs split residuals, so every backend must agree on it.
// IMPORTANT: parent tables must be created before the tables that reference them.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    is_current BOOLEAN NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ledger_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    category TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    split_all BOOLEAN NOT NULL DEFAULT 0,
    category TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS expense_participants (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS debts (
    group_id TEXT NOT NULL,
    debtor_id TEXT NOT NULL,
    creditor_id TEXT NOT NULL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL,
    settled BOOLEAN NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    settled_at INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (group_id, debtor_id, creditor_id),
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_payer_created ON expenses(payer_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_debts_debtor_id ON debts(debtor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_debts_creditor_id ON debts(creditor_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    is_current BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS ledger_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    category TEXT NOT NULL,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL REFERENCES ledger_groups(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id)
)`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES ledger_groups(id) ON DELETE CASCADE,
    description TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    currency TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    split_all BOOLEAN NOT NULL DEFAULT FALSE,
    category TEXT NOT NULL,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS expense_participants (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    PRIMARY KEY (expense_id, position)
)`,
	`CREATE TABLE IF NOT EXISTS debts (
    group_id TEXT NOT NULL REFERENCES ledger_groups(id) ON DELETE CASCADE,
    debtor_id TEXT NOT NULL,
    creditor_id TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    currency TEXT NOT NULL,
    settled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    settled_at BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (group_id, debtor_id, creditor_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_payer_created ON expenses(payer_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_debts_debtor_id ON debts(debtor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_debts_creditor_id ON debts(creditor_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL DEFAULT '',
    is_current BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS ledger_groups (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    currency VARCHAR(16) NOT NULL,
    category VARCHAR(64) NOT NULL,
    created_at BIGINT NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS group_members (
    group_id VARCHAR(64) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    position INT NOT NULL,
    PRIMARY KEY (group_id, user_id),
    INDEX idx_group_members_user_id (user_id),
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id VARCHAR(64) PRIMARY KEY,
    group_id VARCHAR(64) NOT NULL,
    description VARCHAR(255) NOT NULL,
    amount DOUBLE NOT NULL,
    currency VARCHAR(16) NOT NULL,
    payer_id VARCHAR(64) NOT NULL,
    split_all BOOLEAN NOT NULL DEFAULT FALSE,
    category VARCHAR(64) NOT NULL,
    created_at BIGINT NOT NULL,
    INDEX idx_expenses_group_id (group_id),
    INDEX idx_expenses_payer_created (payer_id, created_at),
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS expense_participants (
    expense_id VARCHAR(64) NOT NULL,
    position INT NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS debts (
    group_id VARCHAR(64) NOT NULL,
    debtor_id VARCHAR(64) NOT NULL,
    creditor_id VARCHAR(64) NOT NULL,
    amount DOUBLE NOT NULL,
    currency VARCHAR(16) NOT NULL,
    settled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    settled_at BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (group_id, debtor_id, creditor_id),
    INDEX idx_debts_debtor_id (debtor_id),
    INDEX idx_debts_creditor_id (creditor_id),
    FOREIGN KEY (group_id) REFERENCES ledger_groups(id) ON DELETE CASCADE
) ENGINE=InnoDB`,
}

// migrate executes the dialect's schema setup.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.name, err)
		}
	}
	return nil
}
