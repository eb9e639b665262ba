package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mmeshcher/sizbot-system/internal/model"
)

// SQLiteRepository предоставляет доступ к хранилищу данных в файле SQLite.
// Используется в локальном развёртывании, когда DATABASE_URI не задан.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository открывает файл БД и создаёт схему при первом запуске.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path == "" {
		path = "sizbot.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// database/sql сериализует доступ; одного соединения достаточно
	// и оно исключает ошибки блокировки файла при параллельных записях.
	db.SetMaxOpenConns(1)

	r := &SQLiteRepository{db: db}
	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

func (r *SQLiteRepository) createSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tabel_number TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tabel_number TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL,
			item TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tabel_number TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS catalog (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			season TEXT NOT NULL,
			item TEXT NOT NULL,
			standard_quantity INTEGER NOT NULL,
			UNIQUE (role, season, item)
		)`,
	}

	for _, stmt := range schema {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}

// Close закрывает соединение с БД.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// UpsertUser создаёт сотрудника либо обновляет его отображаемое имя.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, tabel, fullName, role string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (tabel_number, full_name, role) VALUES (?, ?, ?)
		 ON CONFLICT (tabel_number) DO UPDATE SET full_name = excluded.full_name`,
		tabel, fullName, role,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUserByTabel возвращает сотрудника по табельному номеру.
func (r *SQLiteRepository) GetUserByTabel(ctx context.Context, tabel string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tabel_number, full_name, role, created_at FROM users WHERE tabel_number = ?`,
		tabel,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.TabelNumber, &u.FullName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// AddOrder сохраняет заказ СИЗ и возвращает его идентификатор.
func (r *SQLiteRepository) AddOrder(ctx context.Context, order model.Order) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (tabel_number, role, season, item, quantity) VALUES (?, ?, ?, ?, ?)`,
		order.TabelNumber, order.Role, order.Season, order.Item, order.Quantity,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// AddComplaint сохраняет сообщение о нарушении и возвращает его идентификатор.
func (r *SQLiteRepository) AddComplaint(ctx context.Context, complaint model.Complaint) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO complaints (tabel_number, category, description) VALUES (?, ?, ?)`,
		complaint.TabelNumber, complaint.Category, complaint.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert complaint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// CountOrdersByTabel возвращает число заказов сотрудника.
func (r *SQLiteRepository) CountOrdersByTabel(ctx context.Context, tabel string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE tabel_number = ?`, tabel,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// CountComplaintsByTabel возвращает число сообщений о нарушениях от сотрудника.
func (r *SQLiteRepository) CountComplaintsByTabel(ctx context.Context, tabel string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM complaints WHERE tabel_number = ?`, tabel,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count complaints: %w", err)
	}
	return n, nil
}

// CountAllComplaints возвращает общее число сообщений о нарушениях.
func (r *SQLiteRepository) CountAllComplaints(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count all complaints: %w", err)
	}
	return n, nil
}

// CountComplaintsByTabelByCategory возвращает число сообщений сотрудника по категориям.
func (r *SQLiteRepository) CountComplaintsByTabelByCategory(ctx context.Context, tabel string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM complaints WHERE tabel_number = ? GROUP BY category`,
		tabel,
	)
	if err != nil {
		return nil, fmt.Errorf("count complaints by category: %w", err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		res[category] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// LookupCatalog возвращает позиции справочника для должности и сезона
// в порядке заполнения справочника.
func (r *SQLiteRepository) LookupCatalog(ctx context.Context, role, season string) ([]model.CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, season, item, standard_quantity
		 FROM catalog
		 WHERE role = ? AND season = ?
		 ORDER BY id`,
		role, season,
	)
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	defer rows.Close()

	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.Role, &e.Season, &e.Item, &e.StandardQuantity); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

// CatalogRoles возвращает список должностей справочника в порядке заполнения.
func (r *SQLiteRepository) CatalogRoles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM catalog GROUP BY role ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("select catalog roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return roles, nil
}

// SeedCatalogIfEmpty заполняет справочник, только если он пуст.
// Проверка и вставка выполняются в одной транзакции.
func (r *SQLiteRepository) SeedCatalogIfEmpty(ctx context.Context, entries []model.CatalogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&n); err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO catalog (role, season, item, standard_quantity) VALUES (?, ?, ?, ?)`,
			e.Role, e.Season, e.Item, e.StandardQuantity,
		)
		if err != nil {
			return fmt.Errorf("insert catalog entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
