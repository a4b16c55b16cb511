package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	level int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &target{}
	err := Apply(cfg,
		NoError(func(c *target) { c.level = 3 }),
		New(func(c *target) error { c.name = "x"; return nil }),
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.level)
	require.Equal(t, "x", cfg.name)
}

func TestApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &target{}
	err := Apply(cfg,
		Named("level", func(*target) error { return boom }),
		NoError(func(c *target) { c.level = 9 }),
	)
	require.ErrorIs(t, err, boom)
	require.EqualError(t, err, "level: boom")
	require.Zero(t, cfg.level)
}
