package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

// SQLiteRecorder persists the latest pass to a SQLite database.
type SQLiteRecorder struct {
	db   *sql.DB
	mu   sync.Mutex
	opts Options
	log  *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, opts Options, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a pass writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, opts: opts, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS latest_setups (
			pair        TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			market      TEXT NOT NULL,
			run_id      TEXT NOT NULL,
			kind        TEXT NOT NULL,
			label       TEXT NOT NULL,
			setup       TEXT,
			direction   TEXT,
			state       TEXT,
			trigger_price TEXT,
			origin      TEXT,
			trail       TEXT,
			error       TEXT,
			last_closed INTEGER,
			updated_at  INTEGER NOT NULL,
			PRIMARY KEY (pair, timeframe, market)
		)`,

		`CREATE TABLE IF NOT EXISTS candle_integrity (
			pair      TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			market    TEXT NOT NULL,
			idx       INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			fast      REAL,
			slow      REAL,
			label     TEXT,
			PRIMARY KEY (pair, timeframe, market, idx)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordPass upserts one latest_setups row per evaluated instrument and replaces
// its candle_integrity rows, all in one transaction.
func (r *SQLiteRecorder) RecordPass(p *model.PassReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := p.Finished
	if now.IsZero() {
		now = time.Now()
	}
	for _, it := range p.Items {
		if err := r.upsertSetup(tx, p.RunID, it, now); err != nil {
			return fmt.Errorf("upsert %s: %w", it.Instrument, err)
		}
		if err := r.replaceIntegrity(tx, it); err != nil {
			return fmt.Errorf("integrity %s: %w", it.Instrument, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) upsertSetup(tx *sql.Tx, runID string, it model.Evaluated, now time.Time) error {
	o := it.Outcome
	var setup, dir, state, trigger, origin, trail, errText sql.NullString
	if o.Kind == model.Signal {
		res := o.Result
		setup = nullString(string(res.Setup))
		dir = nullString(string(res.Direction))
		state = nullString(string(res.State))
		trigger = nullString(model.FormatPrice(res.Trigger, r.opts.Precision))
		origin = nullString(res.Origin)
		trail = nullString(strings.Join(res.Trail, "; "))
	}
	if o.Err != nil {
		errText = nullString(o.Err.Error())
	}
	var lastClosed sql.NullInt64
	if !o.LastClosed.IsZero() {
		lastClosed = sql.NullInt64{Int64: o.LastClosed.Unix(), Valid: true}
	}

	_, err := tx.Exec(`INSERT INTO latest_setups
		(pair, timeframe, market, run_id, kind, label, setup, direction, state,
		 trigger_price, origin, trail, error, last_closed, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(pair, timeframe, market) DO UPDATE SET
			run_id=excluded.run_id, kind=excluded.kind, label=excluded.label,
			setup=excluded.setup, direction=excluded.direction, state=excluded.state,
			trigger_price=excluded.trigger_price, origin=excluded.origin, trail=excluded.trail,
			error=excluded.error, last_closed=excluded.last_closed, updated_at=excluded.updated_at`,
		it.Instrument.Pair, it.Instrument.Timeframe, it.Instrument.Market,
		runID, o.Kind.String(), o.Label(), setup, dir, state,
		trigger, origin, trail, errText, lastClosed, now.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) replaceIntegrity(tx *sql.Tx, it model.Evaluated) error {
	inst := it.Instrument
	if _, err := tx.Exec(`DELETE FROM candle_integrity WHERE pair=? AND timeframe=? AND market=?`,
		inst.Pair, inst.Timeframe, inst.Market); err != nil {
		return err
	}
	for _, row := range calculator.IntegrityRows(it, r.opts.IntegrityBars, r.opts.FastSpan, r.opts.SlowWindow) {
		b := row.Bar
		if _, err := tx.Exec(`INSERT INTO candle_integrity
			(pair, timeframe, market, idx, timestamp, open, high, low, close, volume, fast, slow, label)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			inst.Pair, inst.Timeframe, inst.Market, row.Index, b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
			nullFloat(row.Fast), nullFloat(row.Slow), nullString(row.Label),
		); err != nil {
			return err
		}
	}
	return nil
}

// LatestSetups returns every stored instrument, ordered by pair.
func (r *SQLiteRecorder) LatestSetups() ([]LatestSetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT pair, timeframe, market, run_id, kind, label,
		setup, direction, state, trigger_price, origin, trail, error, last_closed, updated_at
		FROM latest_setups ORDER BY pair, timeframe, market`)
	if err != nil {
		return nil, fmt.Errorf("query latest setups: %w", err)
	}
	defer rows.Close()

	var out []LatestSetup
	for rows.Next() {
		var ls LatestSetup
		var setup, dir, state, trigger, origin, trail, errText sql.NullString
		var lastClosed sql.NullInt64
		var updatedAt int64
		if err := rows.Scan(&ls.Instrument.Pair, &ls.Instrument.Timeframe, &ls.Instrument.Market,
			&ls.RunID, &ls.Kind, &ls.Label, &setup, &dir, &state, &trigger, &origin, &trail,
			&errText, &lastClosed, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan latest setup: %w", err)
		}
		ls.Setup, ls.Direction, ls.State = setup.String, dir.String, state.String
		ls.Trigger, ls.Origin, ls.Trail, ls.Error = trigger.String, origin.String, trail.String, errText.String
		if lastClosed.Valid {
			ls.LastClosed = time.Unix(lastClosed.Int64, 0).UTC()
		}
		ls.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		out = append(out, ls)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat stores undefined averages as NULL.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v == v}
}
