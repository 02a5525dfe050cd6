package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const pgErrUniqueViolation = "23505"

const operatorsTable = "operators"

const operatorColumns = `tenant_id, operator_id, description, contact_email, contact_phone,
	card_id, external_service_id, badge_id, license_type, license_number, license_expiry,
	duty_status, duty_status_time, associated_device_id, created_at, updated_at`

const schemaDDL = `
CREATE TABLE IF NOT EXISTS operators (
	tenant_id            TEXT        NOT NULL,
	operator_id          TEXT        NOT NULL,
	description          TEXT        NOT NULL DEFAULT '',
	contact_email        TEXT        NOT NULL DEFAULT '',
	contact_phone        TEXT        NOT NULL DEFAULT '',
	card_id              TEXT        NOT NULL DEFAULT '',
	external_service_id  TEXT        NOT NULL DEFAULT '',
	badge_id             TEXT        NOT NULL DEFAULT '',
	license_type         TEXT        NOT NULL DEFAULT '',
	license_number       TEXT        NOT NULL DEFAULT '',
	license_expiry       BIGINT      NOT NULL DEFAULT 0,
	duty_status          INTEGER     NOT NULL DEFAULT 0,
	duty_status_time     BIGINT      NOT NULL DEFAULT 0,
	associated_device_id TEXT        NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, operator_id)
);
CREATE INDEX IF NOT EXISTS operators_contact_phone_idx ON operators (contact_phone);
CREATE INDEX IF NOT EXISTS operators_card_id_idx ON operators (card_id);
CREATE INDEX IF NOT EXISTS operators_external_service_id_idx ON operators (external_service_id);
`

// columnFor maps a domain field to its column. Only known fields are
// accepted so that names can be spliced into SQL safely.
var columnFor = map[domain.Field]string{
	domain.FieldTenantID:           "tenant_id",
	domain.FieldOperatorID:         "operator_id",
	domain.FieldDescription:        "description",
	domain.FieldContactEmail:       "contact_email",
	domain.FieldContactPhone:       "contact_phone",
	domain.FieldCardID:             "card_id",
	domain.FieldExternalServiceID:  "external_service_id",
	domain.FieldBadgeID:            "badge_id",
	domain.FieldLicenseType:        "license_type",
	domain.FieldLicenseNumber:      "license_number",
	domain.FieldLicenseExpiry:      "license_expiry",
	domain.FieldDutyStatus:         "duty_status",
	domain.FieldDutyStatusTime:     "duty_status_time",
	domain.FieldAssociatedDeviceID: "associated_device_id",
}

// OperatorStore implements ports.OperatorStore on PostgreSQL.
type OperatorStore struct {
	pool *pgxpool.Pool
}

var _ ports.OperatorStore = (*OperatorStore)(nil)

func NewOperatorStore(pool *pgxpool.Pool) *OperatorStore {
	return &OperatorStore{pool: pool}
}

// EnsureSchema creates the operators table and its lookup indexes.
func (s *OperatorStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, schemaDDL)
	return err
}

func (s *OperatorStore) Get(ctx context.Context, key domain.OperatorKey) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM `+operatorsTable+` WHERE tenant_id = $1 AND operator_id = $2`,
		key.TenantID, key.OperatorID)
	op, err := scanOperator(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}

func (s *OperatorStore) Create(ctx context.Context, op *domain.Operator) (domain.OperatorKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+operatorsTable+` (`+operatorColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		op.TenantID, op.OperatorID, op.Description, op.ContactEmail, op.ContactPhone,
		op.CardID, op.ExternalServiceID, op.BadgeID, op.LicenseType, op.LicenseNumber,
		int64(op.LicenseExpiry), int(op.DutyStatus), op.DutyStatusTime, op.AssociatedDeviceID,
		op.CreatedAt.UTC(), op.UpdatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.OperatorKey{}, domain.ErrOperatorExists
		}
		return domain.OperatorKey{}, err
	}
	return op.Key(), nil
}

func (s *OperatorStore) UpdatePartial(ctx context.Context, key domain.OperatorKey, fields domain.FieldSet) error {
	query, args, err := buildPartialUpdate(key, fields)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOperatorNotFound
	}
	return nil
}

// buildPartialUpdate renders an UPDATE touching only the given fields.
func buildPartialUpdate(key domain.OperatorKey, fields domain.FieldSet) (string, []any, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields.Fields() {
		col, ok := columnFor[f]
		if !ok || f == domain.FieldTenantID || f == domain.FieldOperatorID {
			return "", nil, fmt.Errorf("update field %q: %w", f, domain.ErrInvalidArgument)
		}
		args = append(args, sqlValue(fields[f]))
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, key.TenantID, key.OperatorID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE tenant_id = $%d AND operator_id = $%d",
		operatorsTable, strings.Join(sets, ", "), len(args)-1, len(args))
	return query, args, nil
}

func sqlValue(v any) any {
	switch t := v.(type) {
	case domain.DutyStatus:
		return int(t)
	case domain.DayNumber:
		return int64(t)
	default:
		return v
	}
}

func (s *OperatorStore) QueryByField(ctx context.Context, q ports.FieldQuery) ([]*domain.Operator, error) {
	query, args, err := buildFieldQuery(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// buildFieldQuery renders the SELECT for an alternate-key lookup.
func buildFieldQuery(q ports.FieldQuery) (string, []any, error) {
	if !q.Field.IsAlternateKey() {
		return "", nil, fmt.Errorf("query by %s: %w", q.Field, domain.ErrInvalidArgument)
	}

	var b strings.Builder
	args := []any{q.Values}
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s = ANY($1)", operatorColumns, operatorsTable, columnFor[q.Field])
	if q.TenantID != "" {
		args = append(args, q.TenantID)
		fmt.Fprintf(&b, " AND tenant_id = $%d", len(args))
	}
	if len(q.OrderBy) > 0 {
		cols := make([]string, 0, len(q.OrderBy))
		for _, f := range q.OrderBy {
			if f != domain.FieldTenantID && f != domain.FieldOperatorID {
				return "", nil, fmt.Errorf("order by %s: %w", f, domain.ErrInvalidArgument)
			}
			cols = append(cols, columnFor[f])
		}
		b.WriteString(" ORDER BY " + strings.Join(cols, ", "))
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args, nil
}

func (s *OperatorStore) ListOperatorIDs(ctx context.Context, tenantID string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT operator_id FROM ` + operatorsTable + ` WHERE tenant_id = $1 ORDER BY operator_id`
	args := []any{tenantID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *OperatorStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func scanOperator(row pgx.Row) (*domain.Operator, error) {
	var (
		o      domain.Operator
		expiry int64
		status int
	)
	err := row.Scan(
		&o.TenantID, &o.OperatorID, &o.Description, &o.ContactEmail, &o.ContactPhone,
		&o.CardID, &o.ExternalServiceID, &o.BadgeID, &o.LicenseType, &o.LicenseNumber, &expiry,
		&status, &o.DutyStatusTime, &o.AssociatedDeviceID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.LicenseExpiry = domain.DayNumber(expiry)
	o.DutyStatus = domain.DutyStatus(status)
	o.Sanitize()
	return &o, nil
}
