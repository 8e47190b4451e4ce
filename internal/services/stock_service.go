package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sinthiyatelecom/backoffice/internal/dateutil"
	"github.com/sinthiyatelecom/backoffice/internal/models"
	"github.com/sirupsen/logrus"
)

const moduleStock = "Stock"

const productColumns = `id, sl_number, carrier, item_type, name, stock, buy_price, total_value, min_stock, remarks`

const historyColumns = `id, date, type, carrier, item_type, quantity, price_per_unit, total_price, profit, remarks, created_at`

// StockService keeps SIM inventory in step with its BUY/SELL history.
// Every stock change locks the product row and posts or edits the history
// row in the same transaction.
type StockService struct {
	db       *sql.DB
	dates    *dateutil.Normalizer
	activity ActivityRecorder
	log      logrus.FieldLogger
}

func NewStockService(db *sql.DB, dates *dateutil.Normalizer, rec ActivityRecorder, log logrus.FieldLogger) *StockService {
	return &StockService{db: db, dates: dates, activity: rec, log: log.WithField("module", "stock")}
}

// applyBuy adds units and makes price the new buy price.
func applyBuy(p *models.Product, qty int, price float64) {
	p.Stock += qty
	p.BuyPrice = price
	p.TotalValue = float64(p.Stock) * p.BuyPrice
}

// applySell removes units and returns the profit over the current buy price.
func applySell(p *models.Product, qty int, price float64) (float64, error) {
	if p.Stock < qty {
		return 0, fmt.Errorf("%s has %d in stock, %d requested: %w", p.Name, p.Stock, qty, ErrInsufficientStock)
	}
	p.Stock -= qty
	p.TotalValue = float64(p.Stock) * p.BuyPrice
	return (price - p.BuyPrice) * float64(qty), nil
}

// revertHistory undoes the stock effect of a posted row. Buy price is left to
// the caller.
func revertHistory(p *models.Product, t models.StockTransaction) error {
	if t.Type == models.StockBuy {
		if p.Stock < t.Quantity {
			return fmt.Errorf("reverting %d units of %s: %w", t.Quantity, p.Name, ErrInsufficientStock)
		}
		p.Stock -= t.Quantity
	} else {
		p.Stock += t.Quantity
	}
	p.TotalValue = float64(p.Stock) * p.BuyPrice
	return nil
}

func productName(carrier, itemType string) string {
	return strings.TrimSpace(carrier + " " + itemType)
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SLNumber, &p.Carrier, &p.ItemType, &p.Name, &p.Stock, &p.BuyPrice, &p.TotalValue, &p.MinStock, &p.Remarks)
	return p, err
}

func scanStockTransaction(row rowScanner) (models.StockTransaction, error) {
	var t models.StockTransaction
	err := row.Scan(&t.ID, &t.Date, &t.Type, &t.Carrier, &t.ItemType, &t.Quantity, &t.PricePerUnit, &t.TotalPrice, &t.Profit, &t.Remarks, &t.CreatedAt)
	return t, err
}

func lockProduct(ctx context.Context, tx *sql.Tx, id string) (models.Product, error) {
	p, err := scanProduct(tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return p, err
}

func saveProduct(ctx context.Context, tx *sql.Tx, p models.Product) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, sl_number, carrier, item_type, name, stock, buy_price, total_value, min_stock, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET stock = EXCLUDED.stock, buy_price = EXCLUDED.buy_price, total_value = EXCLUDED.total_value`,
		p.ID, p.SLNumber, p.Carrier, p.ItemType, p.Name, p.Stock, p.BuyPrice, p.TotalValue, p.MinStock, p.Remarks)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

// Record posts a BUY or SELL. A BUY of an unknown product creates it at the
// end of the serial list; a SELL needs enough units on hand.
func (s *StockService) Record(ctx context.Context, req models.StockRequest) (*models.StockTransaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stock: %w", err)
	}
	defer tx.Rollback()

	id := models.ProductID(req.Carrier, req.ItemType)
	p, err := lockProduct(ctx, tx, id)
	switch {
	case errors.Is(err, ErrNotFound) && req.Type == models.StockBuy:
		p = models.Product{
			ID:       id,
			Carrier:  req.Carrier,
			ItemType: req.ItemType,
			Name:     productName(req.Carrier, req.ItemType),
			MinStock: models.DefaultMinStock,
		}
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(sl_number), 0) + 1 FROM products`).Scan(&p.SLNumber); err != nil {
			return nil, fmt.Errorf("next serial: %w", err)
		}
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("%s not in stock: %w", productName(req.Carrier, req.ItemType), ErrInsufficientStock)
	case err != nil:
		return nil, err
	}

	t := models.StockTransaction{
		ID:           uuid.NewString(),
		Date:         s.dates.ISO(req.Date),
		Type:         req.Type,
		Carrier:      req.Carrier,
		ItemType:     req.ItemType,
		Quantity:     req.Quantity,
		PricePerUnit: req.Price,
		TotalPrice:   float64(req.Quantity) * req.Price,
		Remarks:      strings.TrimSpace(req.Remarks),
		CreatedAt:    s.dates.Now(),
	}
	if req.Type == models.StockBuy {
		applyBuy(&p, req.Quantity, req.Price)
	} else if t.Profit, err = applySell(&p, req.Quantity, req.Price); err != nil {
		return nil, err
	}

	if err := saveProduct(ctx, tx, p); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Date, t.Type, t.Carrier, t.ItemType, t.Quantity, t.PricePerUnit, t.TotalPrice, t.Profit, t.Remarks, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("post stock history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock: %w", err)
	}

	s.log.WithFields(logrus.Fields{"product": p.ID, "type": t.Type, "qty": t.Quantity, "stock": p.Stock}).Debug("stock posted")
	s.activity.Record(ctx, models.ActionAdd, moduleStock, fmt.Sprintf("%s %d x %s", t.Type, t.Quantity, p.Name))
	return &t, nil
}

func (s *StockService) lockHistory(ctx context.Context, tx *sql.Tx, id string) (models.StockTransaction, error) {
	t, err := scanStockTransaction(tx.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM stock_history WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("stock history %s: %w", id, ErrNotFound)
	}
	return t, err
}

// DeleteHistory removes a posted row and reverts its stock change. Removing
// a BUY falls back to the most recent remaining BUY price.
func (s *StockService) DeleteHistory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stock: %w", err)
	}
	defer tx.Rollback()

	t, err := s.lockHistory(ctx, tx, id)
	if err != nil {
		return err
	}
	p, err := lockProduct(ctx, tx, models.ProductID(t.Carrier, t.ItemType))
	if err != nil {
		return err
	}
	if err := revertHistory(&p, t); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_history WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock history: %w", err)
	}

	if t.Type == models.StockBuy {
		var last float64
		err := tx.QueryRowContext(ctx, `
			SELECT price_per_unit FROM stock_history
			WHERE carrier = $1 AND item_type = $2 AND type = $3
			ORDER BY created_at DESC LIMIT 1`, t.Carrier, t.ItemType, models.StockBuy).Scan(&last)
		switch {
		case err == nil:
			p.BuyPrice = last
			p.TotalValue = float64(p.Stock) * p.BuyPrice
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("previous buy price: %w", err)
		}
	}

	if err := saveProduct(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stock: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleStock, "Deleted stock history entry and reverted units for "+p.Name)
	return nil
}

// EditHistory reverts a posted row and re-applies it with the new quantity
// and price. A SELL's profit is re-priced against the current buy price.
func (s *StockService) EditHistory(ctx context.Context, id string, req models.StockHistoryUpdate) (*models.StockTransaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stock: %w", err)
	}
	defer tx.Rollback()

	t, err := s.lockHistory(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p, err := lockProduct(ctx, tx, models.ProductID(t.Carrier, t.ItemType))
	if err != nil {
		return nil, err
	}

	stock := p.Stock
	if t.Type == models.StockBuy {
		stock += req.Quantity - t.Quantity
		p.BuyPrice = req.PricePerUnit
	} else {
		stock += t.Quantity - req.Quantity
		t.Profit = (req.PricePerUnit - p.BuyPrice) * float64(req.Quantity)
	}
	if stock < 0 {
		return nil, fmt.Errorf("editing %s leaves %d units: %w", p.Name, stock, ErrInsufficientStock)
	}
	p.Stock = stock
	p.TotalValue = float64(p.Stock) * p.BuyPrice

	t.Date = s.dates.ISO(req.Date)
	t.Quantity = req.Quantity
	t.PricePerUnit = req.PricePerUnit
	t.TotalPrice = float64(req.Quantity) * req.PricePerUnit
	t.Remarks = strings.TrimSpace(req.Remarks)

	if err := saveProduct(ctx, tx, p); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE stock_history SET date = $1, quantity = $2, price_per_unit = $3, total_price = $4, profit = $5, remarks = $6
		WHERE id = $7`, t.Date, t.Quantity, t.PricePerUnit, t.TotalPrice, t.Profit, t.Remarks, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update stock history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock: %w", err)
	}

	s.activity.Record(ctx, models.ActionEdit, moduleStock, fmt.Sprintf("Edited %s entry for %s", t.Type, p.Name))
	return &t, nil
}

// Products lists inventory by serial number.
func (s *StockService) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY sl_number`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// LowStock returns products at or below their reorder level.
func (s *StockService) LowStock(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	low := []models.Product{}
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// UpdateProduct edits the master data; stock only changes through history.
func (s *StockService) UpdateProduct(ctx context.Context, id string, req models.ProductUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET sl_number = $1, buy_price = $2, total_value = stock * $2, min_stock = $3, remarks = $4
		WHERE id = $5`, req.SLNumber, req.BuyPrice, req.MinStock, strings.TrimSpace(req.Remarks), id)
	if err := expectOneRow(res, err, "product", id); err != nil {
		return err
	}

	s.activity.Record(ctx, models.ActionEdit, moduleStock, "Updated product "+id)
	return nil
}

func (s *StockService) DeleteProduct(ctx context.Context, id string) error {
	var name string
	err := s.db.QueryRowContext(ctx, `DELETE FROM products WHERE id = $1 RETURNING name`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.activity.Record(ctx, models.ActionDelete, moduleStock, "Removed item from inventory: "+name)
	return nil
}

// History lists posted rows newest first, optionally only BUY or SELL.
func (s *StockService) History(ctx context.Context, typ string) ([]models.StockTransaction, error) {
	query := `SELECT ` + historyColumns + ` FROM stock_history`
	var args []any
	if typ != "" {
		query += ` WHERE type = $1`
		args = append(args, strings.ToUpper(typ))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock history: %w", err)
	}
	defer rows.Close()

	history := []models.StockTransaction{}
	for rows.Next() {
		t, err := scanStockTransaction(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, t)
	}
	return history, rows.Err()
}
