// Package telemetry records sessions, status samples and sent commands into
// a local SQLite database, a flight recorder for debugging robot runs after
// the fact.
package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/phoenix-dive/aimlink/internal/status"
)

// sampleInterval throttles status samples; the channel polls at 20Hz but
// per-cycle rows would bloat the database for no diagnostic gain.
const sampleInterval = 250 * time.Millisecond

type Recorder struct {
	db *gorm.DB

	mu         sync.Mutex
	sessionID  string
	lastSample time.Time
}

// Open creates or opens the database and syncs the schema.
func Open(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := gdb.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		return nil, err
	}
	if err := gdb.Exec(`PRAGMA busy_timeout=5000;`).Error; err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&Session{}, &StatusSample{}, &CommandRecord{}); err != nil {
		return nil, err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	return &Recorder{db: gdb}, nil
}

// StartSession opens a new session row and makes it current.
func (r *Recorder) StartSession(host string) (string, error) {
	id := uuid.NewString()
	row := Session{
		SessionID: id,
		Host:      host,
		StartedAt: time.Now().UnixMilli(),
	}
	if err := r.db.Create(&row).Error; err != nil {
		return "", err
	}
	r.mu.Lock()
	r.sessionID = id
	r.lastSample = time.Time{}
	r.mu.Unlock()
	return id, nil
}

// RecordSnapshot stores a throttled status sample for the current session.
func (r *Recorder) RecordSnapshot(snap *status.Snapshot) error {
	r.mu.Lock()
	session := r.sessionID
	now := time.Now()
	if session == "" || now.Sub(r.lastSample) < sampleInterval {
		r.mu.Unlock()
		return nil
	}
	r.lastSample = now
	r.mu.Unlock()

	row := StatusSample{
		SessionID:  session,
		RecordedAt: now.UnixMilli(),
		Flags:      int64(uint32(snap.Robot.Flags)),
		Battery:    snap.Robot.Battery.Float(),
		X:          snap.Robot.X.Float(),
		Y:          snap.Robot.Y.Float(),
		Heading:    snap.Robot.Heading.Float(),
	}
	return r.db.Create(&row).Error
}

// RecordCommand stores one sent command with its wire payload.
func (r *Recorder) RecordCommand(cmdID string, payload []byte) error {
	r.mu.Lock()
	session := r.sessionID
	r.mu.Unlock()
	if session == "" {
		return nil
	}
	row := CommandRecord{
		SessionID: session,
		SentAt:    time.Now().UnixMilli(),
		CmdID:     cmdID,
		Payload:   string(payload),
	}
	return r.db.Create(&row).Error
}

// Close stamps the session end and releases the database.
func (r *Recorder) Close() error {
	r.mu.Lock()
	session := r.sessionID
	r.sessionID = ""
	r.mu.Unlock()

	var errs []error
	if session != "" {
		err := r.db.Model(&Session{}).
			Where("session_id = ?", session).
			Update("ended_at", time.Now().UnixMilli()).Error
		if err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := r.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
