// Package sqlite implements credstore.Store on a SQLite database through bun.
// Several profiles can share one database file; each profile owns four rows.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/upb/lms-dashboard/credstore"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

const opTimeout = 5 * time.Second

type slotRow struct {
	bun.BaseModel `bun:"table:credential_slots"`

	Profile string `bun:"profile,pk"`
	Slot    string `bun:"slot,pk"`
	Value   string `bun:"value,notnull"`
}

// DB is a SQLite database holding credential slots.
type DB struct {
	*bun.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the slot table exists.
func Open(ctx context.Context, path string) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*slotRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create credential_slots: %w", err)
	}

	return &DB{DB: db}, nil
}

// Store is the credential store of one profile.
type Store struct {
	db      *DB
	profile string
	logger  *zap.Logger
}

// NewStore creates a Store for profile
func NewStore(db *DB, profile string, logger *zap.Logger) *Store {
	return &Store{
		db:      db,
		profile: profile,
		logger:  logger.With(zap.String("profile", profile)),
	}
}

// Put replaces every slot of the profile inside one transaction. If the
// transaction fails the profile is cleared, so a stale credential never
// outlives a write that was meant to replace it.
func (s *Store) Put(rec credstore.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	slots := rec.Slots()
	rows := make([]slotRow, 0, len(slots))
	for slot, value := range slots {
		rows = append(rows, slotRow{Profile: s.profile, Slot: slot, Value: value})
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*slotRow)(nil)).
			Where("profile = ?", s.profile).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("write credential slots", zap.Error(err))
		s.Clear()
	}
}

func (s *Store) Get() (credstore.Record, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var rows []slotRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("profile = ?", s.profile).
		Scan(ctx); err != nil {
		s.logger.Warn("read credential slots", zap.Error(err))
		return credstore.Record{}, false
	}

	slots := make(map[string]string, len(rows))
	for _, row := range rows {
		slots[row.Slot] = row.Value
	}
	return credstore.RecordFromSlots(slots)
}

func (s *Store) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.NewDelete().
		Model((*slotRow)(nil)).
		Where("profile = ?", s.profile).
		Exec(ctx); err != nil {
		s.logger.Error("clear credential slots", zap.Error(err))
	}
}
