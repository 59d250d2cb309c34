// Package sql persists grants through database/sql. Placeholders are the
// ? style, so it pairs with sqlite and mysql family drivers.
package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
	"github.com/krew-solutions/stat-query-go/statquery/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db    *sql.DB
	codec *store.Codec
	table string
}

func New(db *sql.DB, reg *stat.Registry) *Store {
	return &Store{db: db, codec: store.NewCodec(reg), table: "stat_grants"}
}

func (s *Store) SetTable(table string) {
	s.table = table
}

func (s *Store) Append(ctx context.Context, rows ...store.Row) ([]store.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to start transaction")
	}

	out := make([]store.Row, len(rows))
	for i, r := range rows {
		r.ID = ulid.Make()
		args, err := s.codec.EncodeRow(r)
		if err == nil {
			_, err = tx.ExecContext(ctx,
				fmt.Sprintf("INSERT INTO %s (id, entity, stat, any_of, all_of, op, operand) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table),
				args...,
			)
		}
		if err != nil {
			if txErr := tx.Rollback(); txErr != nil {
				return nil, multierror.Append(err, txErr)
			}
			return nil, err
		}
		out[i] = r
	}

	if txErr := tx.Commit(); txErr != nil {
		return nil, errors.Wrap(txErr, "failed to commit transaction")
	}
	return out, nil
}

func (s *Store) Load(ctx context.Context, e entity.Entity) ([]store.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, stat, any_of, all_of, op, operand FROM %s WHERE entity = ? ORDER BY id", s.table),
		e.String(),
	)
	if err != nil {
		return nil, err
	}

	var out []store.Row
	for rows.Next() {
		var (
			id, statName, opName, operand string
			anyOf, allOf                  int64
		)
		if err := rows.Scan(&id, &statName, &anyOf, &allOf, &opName, &operand); err != nil {
			rows.Close()
			return nil, err
		}
		r, err := s.codec.DecodeRow(e, id, statName, anyOf, allOf, opName, operand)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	return out, nil
}

func (s *Store) Entities(ctx context.Context) ([]entity.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT entity FROM %s ORDER BY entity", s.table),
	)
	if err != nil {
		return nil, err
	}

	var out []entity.Entity
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			rows.Close()
			return nil, err
		}
		e, err := entity.Parse(raw)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	return out, nil
}

func (s *Store) Revoke(ctx context.Context, ids ...ulid.ULID) (int, error) {
	count := 0
	for _, id := range ids {
		res, err := s.db.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table),
			id.String(),
		)
		if err != nil {
			return count, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return count, err
		}
		count += int(n)
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, e entity.Entity) (int, error) {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE entity = ?", s.table),
		e.String(),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) Setup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id varchar(26) NOT NULL,
			entity varchar(36) NOT NULL,
			stat varchar(128) NOT NULL,
			any_of bigint NOT NULL,
			all_of bigint NOT NULL,
			op varchar(16) NOT NULL,
			operand text NOT NULL,
			CONSTRAINT %s_pk PRIMARY KEY (id)
		)
	`, s.table, s.table))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_entity ON %s (entity)", s.table, s.table),
	)
	return err
}

func (s *Store) Cleanup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table))
	return err
}
