//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestResident(t *testing.T, db DBLike, email string) uuid.UUID {
	t.Helper()

	residentID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO residents (id, email, is_active) VALUES ($1, $2, true) ON CONFLICT (email) DO NOTHING",
		residentID, email)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM residents WHERE email = $1", email).Scan(&residentID)
	}

	return residentID
}

// CreateTestAmenity inserts an amenity open 08:00-20:00 with 60-minute slots.
func CreateTestAmenity(t *testing.T, db DBLike, name string, capacity int32, unitPrice int64) uuid.UUID {
	t.Helper()

	amenityID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO amenities (id, name, open_minute, close_minute, slot_minutes, capacity, unit_price, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true)`,
		amenityID, name, 8*60, 20*60, 60, capacity, unitPrice)
	require.NoError(t, err)

	return amenityID
}

func CreateTestInvoice(t *testing.T, db DBLike, residentID uuid.UUID, amount int64) uuid.UUID {
	t.Helper()

	invoiceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO invoices (id, resident_id, amount, status) VALUES ($1, $2, $3, 'UNPAID')",
		invoiceID, residentID, amount)
	require.NoError(t, err)

	return invoiceID
}

func DeactivateResident(t *testing.T, db DBLike, residentID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE residents SET is_active = false WHERE id = $1", residentID)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables; tests create the rows they need themselves
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
