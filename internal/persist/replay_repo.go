package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/danielsamuels/Rocket-League-Replays/internal/derive"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

var ErrReplayNotFound = errors.New("replay not found")

// ReplayMeta is the catalog row derived from a decoded document.
type ReplayMeta struct {
	Title       string
	NumFrames   int
	RecordFPS   float64
	BlueScore   int
	OrangeScore int
	Goals       []replay.Goal
}

// ReplaySummary is one List entry.
type ReplaySummary struct {
	ID          uuid.UUID
	Title       string
	NumFrames   int
	RecordFPS   float64
	BlueScore   int
	OrangeScore int
	CreatedAt   time.Time
}

// MetaFromDataset computes the catalog metadata of ds. Scores are the
// final scores, as seen at the last frame.
func MetaFromDataset(ds *replay.Dataset, title string, fps float64) ReplayMeta {
	if fps <= 0 {
		fps = 30
	}
	m := ReplayMeta{
		Title:     title,
		NumFrames: ds.MaxFrame(),
		RecordFPS: fps,
		Goals:     ds.Goals(),
	}
	if last := ds.MaxFrame() - 1; last >= 0 {
		m.BlueScore = derive.Score(ds, 0, last)
		m.OrangeScore = derive.Score(ds, 1, last)
	}
	return m
}

// Fingerprint identifies a document by content so re-imports are detected.
func Fingerprint(raw []byte) []byte {
	sum := blake2b.Sum256(raw)
	return sum[:]
}

type ReplayRepo struct {
	db *DB
}

func NewReplayRepo(db *DB) *ReplayRepo {
	return &ReplayRepo{db: db}
}

// Save stores a document and its goals. Importing the same bytes again
// updates the metadata of the existing row and returns its id.
func (r *ReplayRepo) Save(ctx context.Context, meta ReplayMeta, raw []byte) (uuid.UUID, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var idText string
	err = tx.QueryRow(ctx,
		`INSERT INTO replays (id, title, num_frames, record_fps, blue_score, orange_score, fingerprint, document)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (fingerprint) DO UPDATE SET
		     title = EXCLUDED.title,
		     record_fps = EXCLUDED.record_fps
		 RETURNING id::text`,
		uuid.New().String(), meta.Title, meta.NumFrames, meta.RecordFPS,
		meta.BlueScore, meta.OrangeScore, Fingerprint(raw), raw,
	).Scan(&idText)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert replay: %w", err)
	}
	id, err := uuid.Parse(idText)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse replay id: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM replay_goals WHERE replay_id = $1`, idText); err != nil {
		return uuid.Nil, fmt.Errorf("clear goals: %w", err)
	}
	for i, g := range meta.Goals {
		if _, err := tx.Exec(ctx,
			`INSERT INTO replay_goals (replay_id, seq, frame, team) VALUES ($1, $2, $3, $4)`,
			idText, i, g.Frame, g.Team,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert goal %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Load returns the stored document bytes.
func (r *ReplayRepo) Load(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT document FROM replays WHERE id = $1`, id.String(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReplayNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// List returns every catalog entry, newest first.
func (r *ReplayRepo) List(ctx context.Context) ([]ReplaySummary, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id::text, title, num_frames, record_fps, blue_score, orange_score, created_at
		 FROM replays
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReplaySummary
	for rows.Next() {
		var (
			s      ReplaySummary
			idText string
			blue   int16
			orange int16
			frames int32
		)
		if err := rows.Scan(&idText, &s.Title, &frames, &s.RecordFPS, &blue, &orange, &s.CreatedAt); err != nil {
			return nil, err
		}
		if s.ID, err = uuid.Parse(idText); err != nil {
			return nil, fmt.Errorf("parse replay id: %w", err)
		}
		s.NumFrames = int(frames)
		s.BlueScore = int(blue)
		s.OrangeScore = int(orange)
		result = append(result, s)
	}
	return result, rows.Err()
}
