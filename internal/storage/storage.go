package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/sage/internal/game"
)

// Storage keys
const (
	keyStats     = "stats"
	recordPrefix = "game/"
)

// Outcomes, matching board.State names.
const (
	OutcomeWhiteWon = "white won"
	OutcomeBlackWon = "black won"
	OutcomeDraw     = "draw"
)

// ErrRecordNotFound is returned when no record exists for an id.
var ErrRecordNotFound = errors.New("game record not found")

// GameRecord describes one finished game. Positions are not stored; the
// move list is kept in its printed form.
type GameRecord struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"` // "selfplay" or "server"
	White     string        `json:"white"`  // policy names
	Black     string        `json:"black"`
	Outcome   string        `json:"outcome"` // "white won", "black won" or "draw"
	Reason    string        `json:"reason"`
	Plies     int           `json:"plies"`
	Moves     []string      `json:"moves,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewRecord describes a finished run. white and black name the policies.
func NewRecord(source, white, black string, res *game.Result) *GameRecord {
	moves := res.Game.Moves()
	printed := make([]string, len(moves))
	for i, m := range moves {
		printed[i] = m.String()
	}
	return &GameRecord{
		Source:    source,
		White:     white,
		Black:     black,
		Outcome:   res.State.String(),
		Reason:    res.Reason,
		Plies:     res.Plies,
		Moves:     printed,
		StartedAt: time.Now().Add(-res.Duration),
		Duration:  res.Duration,
	}
}

// GameStats aggregates every recorded game.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	DrawsByReason map[string]int `json:"draws_by_reason"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		DrawsByReason: make(map[string]int),
	}
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// add folds one record into the totals.
func (s *GameStats) add(rec *GameRecord) {
	s.GamesPlayed++
	s.TotalPlies += rec.Plies
	s.TotalPlayTime += rec.Duration
	if rec.Plies > s.LongestGame {
		s.LongestGame = rec.Plies
	}

	switch rec.Outcome {
	case OutcomeWhiteWon:
		s.WhiteWins++
	case OutcomeBlackWon:
		s.BlackWins++
	default:
		s.Draws++
		s.DrawsByReason[rec.Reason]++
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open game database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

// prepare fills in the id and validates the outcome.
func prepare(rec *GameRecord) ([]byte, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	switch rec.Outcome {
	case OutcomeWhiteWon, OutcomeBlackWon, OutcomeDraw:
	default:
		return nil, fmt.Errorf("record %s: unknown outcome %q", rec.ID, rec.Outcome)
	}
	return json.Marshal(rec)
}

// SaveRecord stores rec without touching the statistics. An empty ID is
// replaced by a fresh UUID.
func (s *Storage) SaveRecord(rec *GameRecord) error {
	data, err := prepare(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.ID), data)
	})
}

// LoadRecord loads the record with the given id.
func (s *Storage) LoadRecord(id string) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListRecords returns every stored record, oldest first.
func (s *Storage) ListRecords() ([]*GameRecord, error) {
	var records []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()

	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.DrawsByReason == nil {
		stats.DrawsByReason = make(map[string]int)
	}
	return stats, err
}

// RecordGame stores a finished game and folds it into the statistics in a
// single transaction.
func (s *Storage) RecordGame(rec *GameRecord) error {
	data, err := prepare(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(rec)

		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set(recordKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}
