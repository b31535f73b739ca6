// Package persistence provides SQLite-based state storage: the pending
// incident queue, faction standing, events, guest purchase history, and
// sim metadata.
package persistence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/wayfarer/internal/agents"
	"github.com/talgya/wayfarer/internal/engine"
	"github.com/talgya/wayfarer/internal/social"
	"github.com/talgya/wayfarer/internal/visits"
)

// DB wraps a SQLite connection for sim state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS incidents (
		position INTEGER PRIMARY KEY,
		fire_tick INTEGER NOT NULL,
		faction_id INTEGER NOT NULL,
		category INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS factions (
		id INTEGER PRIMARY KEY,
		goodwill REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		stack_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveIncidents writes the pending incident queue (full replace). Position
// preserves fire order across restarts.
func (db *DB) SaveIncidents(queue *visits.IncidentQueue) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM incidents"); err != nil {
		return err
	}

	for i, inc := range queue.Incidents() {
		_, err := tx.Exec(
			"INSERT INTO incidents (position, fire_tick, faction_id, category) VALUES (?, ?, ?, ?)",
			i, inc.FireTick, inc.Faction, inc.Category,
		)
		if err != nil {
			return fmt.Errorf("insert incident %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadIncidents refills a queue from saved rows, in saved order.
func (db *DB) LoadIncidents(queue *visits.IncidentQueue) error {
	rows, err := db.conn.Queryx("SELECT fire_tick, faction_id, category FROM incidents ORDER BY position")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var fireTick uint64
		var factionID uint64
		var category uint8
		if err := rows.Scan(&fireTick, &factionID, &category); err != nil {
			return err
		}
		queue.Add(visits.QueuedIncident{
			FireTick: fireTick,
			Faction:  social.FactionID(factionID),
			Category: visits.IncidentCategory(category),
		})
	}
	return rows.Err()
}

// SaveFactions writes faction goodwill standings.
func (db *DB) SaveFactions(factions []*social.Faction) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range factions {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO factions (id, goodwill) VALUES (?, ?)",
			f.ID, f.Goodwill,
		)
		if err != nil {
			return fmt.Errorf("insert faction %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// LoadFactions restores goodwill onto the given faction set.
func (db *DB) LoadFactions(factions []*social.Faction) error {
	for _, f := range factions {
		var goodwill float64
		err := db.conn.Get(&goodwill, "SELECT goodwill FROM factions WHERE id = ?", f.ID)
		if err != nil {
			continue // unknown faction rows are fine on first run
		}
		f.Goodwill = goodwill
	}
	return nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SavePurchases appends guest-ledger rows from departed parties.
func (db *DB) SavePurchases(records []engine.PurchaseRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		_, err := tx.Exec(
			"INSERT INTO purchases (tick, actor_id, stack_id) VALUES (?, ?, ?)",
			rec.Tick, rec.ActorID, rec.StackID.String(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPurchases returns the full guest-ledger history in insert order.
func (db *DB) LoadPurchases() ([]engine.PurchaseRecord, error) {
	rows, err := db.conn.Queryx("SELECT tick, actor_id, stack_id FROM purchases ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.PurchaseRecord
	for rows.Next() {
		var tick, actorID uint64
		var stackID string
		if err := rows.Scan(&tick, &actorID, &stackID); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(stackID)
		if err != nil {
			return nil, fmt.Errorf("parse stack id %q: %w", stackID, err)
		}
		out = append(out, engine.PurchaseRecord{
			Tick:    tick,
			ActorID: agents.ActorID(actorID),
			StackID: id,
		})
	}
	return out, rows.Err()
}

// SaveMeta stores a key-value pair in sim metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta fetches a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a previous run saved state to restore.
func (db *DB) HasWorldState() bool {
	_, err := db.GetMeta("last_tick")
	return err == nil
}
