// Package sqlite stores transactions in a SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/etnz/coinfolio"
)

// transactionRow is the database model of a coinfolio.Transaction.
// Decimals are stored as text to keep their exact value. Seq keeps the
// insertion order.
type transactionRow struct {
	Seq       uint      `gorm:"primarykey"`
	TxID      string    `gorm:"uniqueIndex;not null"`
	AssetID   string    `gorm:"index;not null"`
	Type      string    `gorm:"not null"` // buy or sell
	Amount    string    `gorm:"not null"`
	Price     string    `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (transactionRow) TableName() string { return "transactions" }

func toRow(tx coinfolio.Transaction) transactionRow {
	return transactionRow{
		TxID:      tx.ID,
		AssetID:   tx.AssetID,
		Type:      tx.Type.String(),
		Amount:    tx.Amount.String(),
		Price:     tx.PricePerUnit.String(),
		Timestamp: tx.Timestamp.UTC(),
		Notes:     tx.Notes,
	}
}

func (r transactionRow) transaction() (coinfolio.Transaction, error) {
	typ, err := coinfolio.ParseTxType(r.Type)
	if err != nil {
		return coinfolio.Transaction{}, err
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return coinfolio.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return coinfolio.Transaction{}, fmt.Errorf("invalid price %q: %w", r.Price, err)
	}
	return coinfolio.Transaction{
		ID:           r.TxID,
		AssetID:      r.AssetID,
		Type:         typ,
		Amount:       coinfolio.Q(amount),
		PricePerUnit: coinfolio.M(price),
		Timestamp:    r.Timestamp.UTC(),
		Notes:        r.Notes,
	}, nil
}

// Store is a coinfolio.Repository backed by SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens, or creates, the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&transactionRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) List(ctx context.Context, assetID string) ([]coinfolio.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).Order("seq").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return transactions(rows)
}

func (s *Store) All(ctx context.Context) ([]coinfolio.Transaction, error) {
	var rows []transactionRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	return transactions(rows)
}

// Save inserts tx, or updates the row with the same transaction ID, keeping
// its position in the insertion order.
func (s *Store) Save(ctx context.Context, tx coinfolio.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	row := toRow(tx)
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var existing transactionRow
		err := db.Where("tx_id = ?", tx.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return db.Create(&row).Error
		case err != nil:
			return err
		}
		row.Seq = existing.Seq
		row.CreatedAt = existing.CreatedAt
		return db.Save(&row).Error
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("tx_id = ?", id).Delete(&transactionRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cannot delete %q: %w", id, coinfolio.ErrNotFound)
	}
	return nil
}

func transactions(rows []transactionRow) ([]coinfolio.Transaction, error) {
	txs := make([]coinfolio.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", r.TxID, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
