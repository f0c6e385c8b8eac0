package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL, которые мы различаем на уровне репозиториев
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isPgCode проверяет, соответствует ли ошибка заданному коду PostgreSQL
func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// isNoRows проверяет отсутствие строк в результате запроса
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
