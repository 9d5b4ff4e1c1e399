package refframe

import (
	"testing"

	"github.com/gowave/dwvdec/codec"
	"github.com/stretchr/testify/require"
)

func TestInsertFailsAtCapacityMinusOne(t *testing.T) {
	tbl := New(2)
	require.NoError(t, tbl.Insert(&codec.Frame{Display: 1}, true))
	err := tbl.Insert(&codec.Frame{Display: 2}, true)
	require.Error(t, err)
	require.ErrorIs(t, err, codec.Sentinel(codec.BufferOverrun))
}

func TestRetireOnlyReleasesWhenDisplayedAndUnreferenced(t *testing.T) {
	tbl := New(3)
	require.NoError(t, tbl.Insert(&codec.Frame{Display: 1}, true))
	tbl.Retire(1) // still a reference: no-op
	require.NotNil(t, tbl.Find(1))
	tbl.MarkDisplayed(1) // displayed, but still reference: stays
	require.NotNil(t, tbl.Find(1))
	tbl.Retire(1) // now displayed and unreferenced: released
	require.Nil(t, tbl.Find(1))
}

func TestNextDisplayReplay(t *testing.T) {
	tbl := New(4)
	require.NoError(t, tbl.Insert(&codec.Frame{Display: 5}, false))
	require.NoError(t, tbl.Insert(&codec.Frame{Display: 3}, false))
	f, ok := tbl.NextDisplay(0)
	require.True(t, ok)
	require.Equal(t, uint32(3), f.Display)
	tbl.MarkDisplayed(3)
	f, ok = tbl.NextDisplay(0)
	require.True(t, ok)
	require.Equal(t, uint32(5), f.Display)
}
