package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// Key layout, with \x00 separators:
//
//	op  <tenant> <operator>                     -> JSON operator
//	idx <field> <value> <tenant> <operator>     -> empty
//
// Blank alternate keys are not indexed.
const sep = "\x00"

var indexedFields = []domain.Field{
	domain.FieldContactPhone,
	domain.FieldCardID,
	domain.FieldExternalServiceID,
}

func recordKey(k domain.OperatorKey) []byte {
	return []byte("op" + sep + k.TenantID + sep + k.OperatorID)
}

func tenantPrefix(tenantID string) []byte {
	return []byte("op" + sep + tenantID + sep)
}

func indexPrefix(f domain.Field, value, tenantID string) []byte {
	p := "idx" + sep + string(f) + sep + value + sep
	if tenantID != "" {
		p += tenantID + sep
	}
	return []byte(p)
}

func indexKey(f domain.Field, value string, k domain.OperatorKey) []byte {
	return append(indexPrefix(f, value, k.TenantID), k.OperatorID...)
}

// keyFromIndex recovers the operator key from an index entry.
func keyFromIndex(key []byte) (domain.OperatorKey, bool) {
	parts := bytes.Split(key, []byte(sep))
	if len(parts) != 5 {
		return domain.OperatorKey{}, false
	}
	return domain.OperatorKey{TenantID: string(parts[3]), OperatorID: string(parts[4])}, true
}

// OperatorStore implements ports.OperatorStore on an embedded Badger
// database, maintaining its own secondary indexes for the alternate keys.
type OperatorStore struct {
	db *badger.DB
}

var _ ports.OperatorStore = (*OperatorStore)(nil)

func NewOperatorStore(db *badger.DB) *OperatorStore {
	return &OperatorStore{db: db}
}

func (s *OperatorStore) Get(ctx context.Context, key domain.OperatorKey) (*domain.Operator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var op *domain.Operator
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		op, err = readRecord(txn, key)
		return err
	})
	return op, err
}

func (s *OperatorStore) Create(ctx context.Context, op *domain.Operator) (domain.OperatorKey, error) {
	if err := ctx.Err(); err != nil {
		return domain.OperatorKey{}, err
	}
	key := op.Key()
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(key))
		switch {
		case err == nil:
			return domain.ErrOperatorExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := writeRecord(txn, op); err != nil {
			return err
		}
		for _, f := range indexedFields {
			if v := indexValue(op, f); v != "" {
				if err := txn.Set(indexKey(f, v, key), nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.OperatorKey{}, err
	}
	return key, nil
}

// UpdatePartial applies fields to the stored record and moves any index
// entries whose alternate key changed.
func (s *OperatorStore) UpdatePartial(ctx context.Context, key domain.OperatorKey, fields domain.FieldSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		op, err := readRecord(txn, key)
		if err != nil {
			return err
		}
		before := make(map[domain.Field]string, len(indexedFields))
		for _, f := range indexedFields {
			before[f] = indexValue(op, f)
		}

		fields.Apply(op)
		op.UpdatedAt = time.Now().UTC()

		for _, f := range indexedFields {
			old, cur := before[f], indexValue(op, f)
			if old == cur {
				continue
			}
			if old != "" {
				if err := txn.Delete(indexKey(f, old, key)); err != nil {
					return err
				}
			}
			if cur != "" {
				if err := txn.Set(indexKey(f, cur, key), nil); err != nil {
					return err
				}
			}
		}
		return writeRecord(txn, op)
	})
}

func (s *OperatorStore) QueryByField(ctx context.Context, q ports.FieldQuery) ([]*domain.Operator, error) {
	if !q.Field.IsAlternateKey() {
		return nil, fmt.Errorf("query by %s: %w", q.Field, domain.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*domain.Operator
	err := s.db.View(func(txn *badger.Txn) error {
		// Sort keys are part of the index entry, so order and cut before
		// decoding any record.
		var keys []domain.OperatorKey
		seen := map[domain.OperatorKey]bool{}
		for _, v := range q.Values {
			if v == "" {
				continue
			}
			found, err := scanIndex(txn, indexPrefix(q.Field, v, q.TenantID))
			if err != nil {
				return err
			}
			for _, k := range found {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
		sortKeys(keys, q.OrderBy)

		for _, k := range keys {
			if q.Limit > 0 && len(out) >= q.Limit {
				break
			}
			op, err := readRecord(txn, k)
			if errors.Is(err, domain.ErrOperatorNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, op)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OperatorStore) ListOperatorIDs(ctx context.Context, tenantID string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := tenantPrefix(tenantID)
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
			if limit > 0 && len(ids) >= limit {
				break
			}
		}
		return nil
	})
	return ids, err
}

// Ping fails once the database has been closed.
func (s *OperatorStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func readRecord(txn *badger.Txn, key domain.OperatorKey) (*domain.Operator, error) {
	item, err := txn.Get(recordKey(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, err
	}
	var op domain.Operator
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &op)
	}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	op.Sanitize()
	return &op, nil
}

func writeRecord(txn *badger.Txn, op *domain.Operator) error {
	val, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return txn.Set(recordKey(op.Key()), val)
}

func scanIndex(txn *badger.Txn, prefix []byte) ([]domain.OperatorKey, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []domain.OperatorKey
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if k, ok := keyFromIndex(it.Item().Key()); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func indexValue(op *domain.Operator, f domain.Field) string {
	switch f {
	case domain.FieldContactPhone:
		return op.ContactPhone
	case domain.FieldCardID:
		return op.CardID
	case domain.FieldExternalServiceID:
		return op.ExternalServiceID
	default:
		return ""
	}
}

func sortKeys(keys []domain.OperatorKey, orderBy []domain.Field) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(keys, func(i, j int) bool {
		for _, f := range orderBy {
			var a, b string
			switch f {
			case domain.FieldTenantID:
				a, b = keys[i].TenantID, keys[j].TenantID
			case domain.FieldOperatorID:
				a, b = keys[i].OperatorID, keys[j].OperatorID
			}
			if a != b {
				return a < b
			}
		}
		return false
	})
}
