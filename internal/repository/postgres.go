// Package repository содержит реализации доступа к данным:
// PostgreSQL для серверного развёртывания и SQLite для локального.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/sizbot-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserNotFound возвращается, если сотрудник с таким табельным номером не найден.
var ErrUserNotFound = errors.New("user not found")

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// UpsertUser создаёт сотрудника либо обновляет его отображаемое имя.
// Табельный номер — уникальный ключ, должность при повторном обращении
// не меняется.
func (r *PostgresRepository) UpsertUser(ctx context.Context, tabel, fullName, role string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (tabel_number, full_name, role) VALUES ($1, $2, $3)
		 ON CONFLICT (tabel_number) DO UPDATE SET full_name = EXCLUDED.full_name`,
		tabel, fullName, role,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUserByTabel возвращает сотрудника по табельному номеру.
func (r *PostgresRepository) GetUserByTabel(ctx context.Context, tabel string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, tabel_number, full_name, role, created_at FROM users WHERE tabel_number = $1`,
		tabel,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.TabelNumber, &u.FullName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// AddOrder сохраняет заказ СИЗ и возвращает его идентификатор.
// Бизнес-правила здесь не проверяются — это зона автомата диалога.
func (r *PostgresRepository) AddOrder(ctx context.Context, order model.Order) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (tabel_number, role, season, item, quantity)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		order.TabelNumber, order.Role, order.Season, order.Item, order.Quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// AddComplaint сохраняет сообщение о нарушении и возвращает его идентификатор.
func (r *PostgresRepository) AddComplaint(ctx context.Context, complaint model.Complaint) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO complaints (tabel_number, category, description)
		 VALUES ($1, $2, $3) RETURNING id`,
		complaint.TabelNumber, complaint.Category, complaint.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert complaint: %w", err)
	}
	return id, nil
}

// CountOrdersByTabel возвращает число заказов сотрудника.
func (r *PostgresRepository) CountOrdersByTabel(ctx context.Context, tabel string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE tabel_number = $1`, tabel,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// CountComplaintsByTabel возвращает число сообщений о нарушениях от сотрудника.
func (r *PostgresRepository) CountComplaintsByTabel(ctx context.Context, tabel string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM complaints WHERE tabel_number = $1`, tabel,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count complaints: %w", err)
	}
	return n, nil
}

// CountAllComplaints возвращает общее число сообщений о нарушениях.
func (r *PostgresRepository) CountAllComplaints(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count all complaints: %w", err)
	}
	return n, nil
}

// CountComplaintsByTabelByCategory возвращает число сообщений сотрудника по категориям.
func (r *PostgresRepository) CountComplaintsByTabelByCategory(ctx context.Context, tabel string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM complaints WHERE tabel_number = $1 GROUP BY category`,
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
// в порядке заполнения справочника. Пустой результат — не ошибка.
func (r *PostgresRepository) LookupCatalog(ctx context.Context, role, season string) ([]model.CatalogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role, season, item, standard_quantity
		 FROM catalog
		 WHERE role = $1 AND season = $2
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
func (r *PostgresRepository) CatalogRoles(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
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
// Проверка и вставка выполняются в одной транзакции; гонка двух
// стартующих процессов гасится уникальным индексом справочника.
func (r *PostgresRepository) SeedCatalogIfEmpty(ctx context.Context, entries []model.CatalogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&n); err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO catalog (role, season, item, standard_quantity) VALUES ($1, $2, $3, $4)`,
			e.Role, e.Season, e.Item, e.StandardQuantity,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				// справочник уже засеян параллельным процессом
				return nil
			}
			return fmt.Errorf("insert catalog entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
