package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isForeignKeyViolation 23503: referencia a una fila inexistente o en uso.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// nullIfEmpty columnas UUID opcionales: "" se guarda como NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref lectura de columnas UUID/texto opcionales.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nextSequence incrementa el contador scope y devuelve el nuevo valor. Dentro de una tx el
// upsert bloquea la fila hasta el commit, así que dos ventas concurrentes no comparten número
// y un rollback devuelve el número.
func nextSequence(ctx context.Context, q Querier, scope string) (int64, error) {
	var n int64
	err := q.QueryRow(ctx, `
		INSERT INTO sequences (scope, value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, scope).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return n, nil
}

// where acumula condiciones y argumentos posicionales ($1, $2...). Cada '?' de una condición
// se reemplaza por el placeholder de su único argumento.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

// arg agrega un argumento suelto y devuelve su placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// page LIMIT/OFFSET; limit <= 0 devuelve todo desde offset.
func (w *where) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		out += " LIMIT " + w.arg(limit)
	}
	if offset > 0 {
		out += " OFFSET " + w.arg(offset)
	}
	return out
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// likePattern búsqueda parcial sin distinguir mayúsculas.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}
