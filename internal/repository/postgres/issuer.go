package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"CaseFilePlatform/internal/repository"
	pkgerrors "CaseFilePlatform/pkg/errors"
)

// SequenceIssuer выдает внешние номера через последовательности PostgreSQL.
// nextval атомарен на уровне хранилища, поэтому конкурентные создания
// никогда не получают одинаковый номер.
type SequenceIssuer struct {
	pool *pgxpool.Pool
}

// NewSequenceIssuer создает новый SequenceIssuer
func NewSequenceIssuer(pool *pgxpool.Pool) repository.IdentifierIssuer {
	return &SequenceIssuer{pool: pool}
}

// Next возвращает следующий номер для заданного вида сущности
func (s *SequenceIssuer) Next(ctx context.Context, kind repository.EntityKind) (int64, error) {
	var sequence string
	switch kind {
	case repository.KindAgent:
		sequence = "agent_external_id_seq"
	case repository.KindClient:
		sequence = "client_external_id_seq"
	default:
		return 0, pkgerrors.New(pkgerrors.ErrInternal, "unknown entity kind: "+string(kind))
	}

	var next int64
	if err := s.pool.QueryRow(ctx, "SELECT nextval($1::regclass)", sequence).Scan(&next); err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.ErrStorage, "failed to issue external id")
	}

	return next, nil
}
