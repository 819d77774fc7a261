package tz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"localesync/pkg/tz"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	loc, err := tz.Load("")
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)

	loc, err = tz.Load("utc")
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)

	loc, err = tz.Load("Europe/Paris")
	require.NoError(t, err)
	require.Equal(t, "Europe/Paris", loc.String())

	_, err = tz.Load("Mars/Olympus")
	require.Error(t, err)
}

func TestStamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 7, 1, 10, 30, 0, 0, time.UTC)
	paris, err := tz.Load("Europe/Paris")
	require.NoError(t, err)

	require.Equal(t, "2026-07-01 12:30 CEST", tz.Stamp(at, paris))
	require.Equal(t, "2026-07-01 10:30 UTC", tz.Stamp(at, nil))
}
