package statemanager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/pierrec/lz4/v4"
)

// Version tags every save record. It is written but not checked on load.
const Version = "1.0"

// RecordMeta is the calendar summary stored beside the state.
type RecordMeta struct {
	Turn    int `json:"turn"`
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
	Month   int `json:"month"`
	Day     int `json:"day"`
}

// Record is the persisted save shape.
type Record struct {
	Version   string           `json:"version"`
	GameState *aggregate.State `json:"gameState"`
	Timestamp int64            `json:"timestamp"`
	Meta      RecordMeta       `json:"meta"`
}

// NewRecord snapshots state with its calendar summary.
func NewRecord(state *aggregate.State, timestamp int64) Record {
	rec := Record{Version: Version, GameState: state, Timestamp: timestamp}
	if state != nil && state.Meta != nil {
		gt := state.Meta.GameTime
		rec.Meta = RecordMeta{
			Turn:    state.Meta.Turn,
			Year:    gt.Year,
			Quarter: gt.Quarter,
			Month:   gt.Month,
			Day:     gt.Day,
		}
	}
	return rec
}

// EncodeRecord serializes rec as LZ4-compressed JSON.
func EncodeRecord(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal save record: %w", err)
	}

	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("compress save record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("compress save record: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRecord reverses EncodeRecord. A record without a complete game
// state is reported as corrupt.
func DecodeRecord(data []byte) (Record, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	raw, err := io.ReadAll(reader)
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeSaveCorrupt, "decompress save record", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeSaveCorrupt, "unmarshal save record", err)
	}
	if !rec.GameState.Complete() {
		return Record{}, apperrors.New(apperrors.CodeSaveCorrupt, "save record is missing game state")
	}
	return rec, nil
}
