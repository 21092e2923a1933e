package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
	"github.com/roach88/hexlife/internal/session"
)

// Grid parses picture or fails the test.
func Grid(t testing.TB, picture string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(picture)
	require.NoError(t, err, "parse pattern")
	return g
}

// Engine returns an engine sized to picture with picture loaded.
func Engine(t testing.TB, picture string, opts ...engine.Option) *engine.Engine {
	t.Helper()
	g := Grid(t, picture)
	eng, err := engine.New(g.Rows(), g.Cols(), opts...)
	require.NoError(t, err)
	require.NoError(t, eng.Load(g))
	return eng
}

// Session returns a session over Engine(t, picture).
func Session(t testing.TB, picture string, opts ...session.Option) *session.Session {
	t.Helper()
	return session.New(Engine(t, picture), opts...)
}

// Ticks runs s for up to n ticks and returns every tick produced.
func Ticks(t testing.TB, s *session.Session, n int) []session.Tick {
	t.Helper()
	var ticks []session.Tick
	_, err := s.Run(context.Background(), n, func(tk session.Tick) error {
		ticks = append(ticks, tk)
		return nil
	})
	require.NoError(t, err)
	return ticks
}

// Trajectory steps eng n times and returns the picture after each step.
func Trajectory(eng *engine.Engine, n int) []string {
	pictures := make([]string, 0, n)
	for i := 0; i < n; i++ {
		eng.Step()
		pictures = append(pictures, eng.Snapshot().String())
	}
	return pictures
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
