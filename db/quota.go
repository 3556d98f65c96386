// ABOUTME: Quota account operations
// ABOUTME: Handles free-trial seeding, credit add/deduct, and ledger history
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/meishi/models"
)

// EnsureCustomer loads the quota account for key, creating it with the
// free-trial allowance when it does not exist yet.
func EnsureCustomer(db *sql.DB, key string) (*models.Customer, error) {
	customer, err := GetCustomer(db, key)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	now := time.Now()
	customer = &models.Customer{
		Key:       key,
		Quota:     models.InitialFreeCredits,
		FreeTrial: true,
		UpdatedAt: now,
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO customers (key, quota, free_trial, updated_at)
		VALUES (?, ?, 1, ?)
	`, key, customer.Quota, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	note := fmt.Sprintf("新帳號免費試用 %d 張名片額度", models.InitialFreeCredits)
	if err := insertLedger(tx, key, models.LedgerFreeTrial, models.InitialFreeCredits, note, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns the account for key, or nil when it does not exist.
func GetCustomer(db *sql.DB, key string) (*models.Customer, error) {
	customer := &models.Customer{}
	var freeTrial int

	err := db.QueryRow(`
		SELECT key, quota, free_trial, updated_at
		FROM customers WHERE key = ?
	`, key).Scan(&customer.Key, &customer.Quota, &freeTrial, &customer.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	customer.FreeTrial = freeTrial != 0
	return customer, nil
}

// AddQuota credits amount cards to the account and records it in the ledger.
// Adding quota ends the free trial.
func AddQuota(db *sql.DB, key string, amount int, note string) (*models.Customer, error) {
	if _, err := EnsureCustomer(db, key); err != nil {
		return nil, err
	}

	now := time.Now()
	if note == "" {
		note = fmt.Sprintf("增加 %d 張名片額度", amount)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		UPDATE customers
		SET quota = MAX(quota, 0) + ?, free_trial = 0, updated_at = ?
		WHERE key = ?
	`, amount, now, key)
	if err != nil {
		return nil, fmt.Errorf("failed to add quota: %w", err)
	}

	if err := insertLedger(tx, key, models.LedgerQuotaAdded, amount, note, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return GetCustomer(db, key)
}

// DeductQuota debits amount cards from the account. It fails without
// changing anything when the balance is insufficient.
func DeductQuota(db *sql.DB, key string, amount int) error {
	if _, err := EnsureCustomer(db, key); err != nil {
		return err
	}

	now := time.Now()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE customers
		SET quota = quota - ?, updated_at = ?
		WHERE key = ? AND quota >= ?
	`, amount, now, key, amount)
	if err != nil {
		return fmt.Errorf("failed to deduct quota: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("insufficient quota for %q", key)
	}

	note := fmt.Sprintf("掃描名片 %d 張", amount)
	if err := insertLedger(tx, key, models.LedgerQuotaUsed, -amount, note, now); err != nil {
		return err
	}

	return tx.Commit()
}

// HasQuota reports whether the account holds at least required credits.
func HasQuota(db *sql.DB, key string, required int) (bool, error) {
	customer, err := EnsureCustomer(db, key)
	if err != nil {
		return false, err
	}
	return customer.Quota >= required, nil
}

// CustomerHistory returns the latest ledger entries for key, newest first.
func CustomerHistory(db *sql.DB, key string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, customer_key, action, amount, COALESCE(note, ''), created_at
		FROM quota_ledger
		WHERE customer_key = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.CustomerKey, &e.Action, &e.Amount, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertLedger(tx *sql.Tx, key, action string, amount int, note string, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO quota_ledger (id, customer_key, action, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), key, action, amount, note, now)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}
