package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
	"github.com/roach88/hexlife/internal/session"
)

// marshalTags converts run tags to JSON TEXT with sorted keys.
func marshalTags(tags map[string]string) (string, error) {
	if len(tags) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalTags(data string) (map[string]string, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var tags map[string]string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// tickRow holds the column values of one ticks row before conversion.
type tickRow struct {
	seq         int64
	epoch       int
	seed        int64
	generation  int
	verdict     string
	label       string
	alive       int
	fingerprint string
	reseeded    int
	halted      int
}

func (r tickRow) decode() (session.Tick, error) {
	verdict, err := engine.ParseVerdict(r.verdict)
	if err != nil {
		return session.Tick{}, fmt.Errorf("tick %d: %w", r.seq, err)
	}
	label, err := engine.ParseLabel(r.label)
	if err != nil {
		return session.Tick{}, fmt.Errorf("tick %d: %w", r.seq, err)
	}
	fp, err := grid.ParseFingerprint(r.fingerprint)
	if err != nil {
		return session.Tick{}, fmt.Errorf("tick %d: %w", r.seq, err)
	}
	return session.Tick{
		Seq:         r.seq,
		Epoch:       r.epoch,
		Seed:        r.seed,
		Generation:  r.generation,
		Verdict:     verdict,
		Label:       label,
		Alive:       r.alive,
		Fingerprint: fp,
		Reseeded:    r.reseeded != 0,
		Halted:      r.halted != 0,
	}, nil
}
