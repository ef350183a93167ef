package repository

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/sqlerr"
)

const usersTable = "users"

// PgxAPI is the subset of pgxpool.Pool the store needs.
type PgxAPI interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var _ PgxAPI = (*pgxpool.Pool)(nil)

// PostgresStore maps user items onto the users table created by the
// embedded migrations: one column per attribute, age as NUMERIC.
//
// Only the four user attributes are persisted; anything else in an item is
// dropped. Ages travel as text and are cast by Postgres, so an invalid number
// is rejected by the database, the same way DynamoDB rejects it.
type PostgresStore struct {
	db PgxAPI
}

// NewPostgresStore wraps a pgx pool.
func NewPostgresStore(db PgxAPI) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	selectColumns = `user_id, name, email, age::text`

	upsertSQL = `
		INSERT INTO users (user_id, name, email, age)
		VALUES ($1, $2, $3, $4::text::numeric)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, age = EXCLUDED.age`
)

func (s *PostgresStore) Put(ctx context.Context, item model.Item) error {
	userID, name, email, age := itemColumns(item)

	_, err := s.db.Exec(ctx, upsertSQL, userID, name, email, age)
	return sqlerr.HandleError(err, usersTable, "put item")
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (model.Item, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM users WHERE user_id = $1`, userID)
	return scanItem(row, "get item")
}

func (s *PostgresStore) Scan(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, sqlerr.HandleError(err, usersTable, "scan")
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows, "scan")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlerr.HandleError(err, usersTable, "scan")
	}
	return items, nil
}

// Update is an upsert keyed by userID. Attributes absent from fields keep
// their stored value, or the column default for a new row.
func (s *PostgresStore) Update(ctx context.Context, userID string, fields model.Item) (model.Item, error) {
	_, name, email, age := itemColumns(fields)

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (user_id, name, email, age)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), $4::text::numeric)
		ON CONFLICT (user_id) DO UPDATE
		SET name  = COALESCE($2, users.name),
		    email = COALESCE($3, users.email),
		    age   = COALESCE($4::text::numeric, users.age)
		RETURNING `+selectColumns,
		userID, name, email, age,
	)
	return scanItem(row, "update item")
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) (model.Item, error) {
	row := s.db.QueryRow(ctx, `DELETE FROM users WHERE user_id = $1 RETURNING `+selectColumns, userID)
	return scanItem(row, "delete item")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// itemColumns pulls column parameters out of an item. Absent attributes
// come back as nil so SQL can tell them apart from empty strings.
func itemColumns(item model.Item) (userID, name, email, age *string) {
	return attrText(item, model.AttrUserID),
		attrText(item, model.AttrName),
		attrText(item, model.AttrEmail),
		attrText(item, model.AttrAge)
}

func attrText(item model.Item, name string) *string {
	switch v := item[name].(type) {
	case *types.AttributeValueMemberS:
		return &v.Value
	case *types.AttributeValueMemberN:
		return &v.Value
	default:
		return nil
	}
}

// scanItem reads one row into an item. pgx.ErrNoRows yields a nil item.
func scanItem(row pgx.Row, operation string) (model.Item, error) {
	var userID, name, email, age string
	if err := row.Scan(&userID, &name, &email, &age); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, sqlerr.HandleError(err, usersTable, operation)
	}

	return model.Item{
		model.AttrUserID: &types.AttributeValueMemberS{Value: userID},
		model.AttrName:   &types.AttributeValueMemberS{Value: name},
		model.AttrEmail:  &types.AttributeValueMemberS{Value: email},
		model.AttrAge:    &types.AttributeValueMemberN{Value: age},
	}, nil
}
