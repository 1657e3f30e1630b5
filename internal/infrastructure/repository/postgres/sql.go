package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

const (
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqUniqueViolation     pq.ErrorCode = "23505"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == code
}

func isForeignKeyViolation(err error) bool {
	return hasPQCode(err, pqForeignKeyViolation)
}

func isUniqueViolation(err error) bool {
	return hasPQCode(err, pqUniqueViolation)
}

func idsToStrings(ids []id.ID) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		out = append(out, v.String())
	}
	return out
}

// parseStoredID canonicalises ids read back from the database.
func parseStoredID(raw string) id.ID {
	v, err := id.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

func nullableID(v id.ID) sql.NullString {
	if v.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}
