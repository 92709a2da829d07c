package rowdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_MarshalUnmarshal(t *testing.T) {
	t.Parallel()

	aRow := gen.Row()
	assert.Equal(t, uint64(295), aRow.Size())

	data, err := aRow.Marshal(nil)
	require.NoError(t, err)
	assert.Len(t, data, RowSize)

	var actual Row
	err = UnmarshalRow(data, &actual)
	require.NoError(t, err)

	assert.Equal(t, aRow, actual)
}

func TestRow_MarshalUnmarshal_MaxLengthStrings(t *testing.T) {
	t.Parallel()

	aRow := Row{
		ID:       42,
		Username: strings.Repeat("u", UsernameSize),
		Email:    strings.Repeat("e", EmailSize),
	}

	data, err := aRow.Marshal(nil)
	require.NoError(t, err)

	var actual Row
	err = UnmarshalRow(data, &actual)
	require.NoError(t, err)

	assert.Equal(t, aRow, actual)
}

func TestRow_Marshal_StringTooLong(t *testing.T) {
	t.Parallel()

	_, err := Row{ID: 1, Username: strings.Repeat("u", UsernameSize+1)}.Marshal(nil)
	require.Error(t, err)

	_, err = Row{ID: 1, Email: strings.Repeat("e", EmailSize+1)}.Marshal(nil)
	require.Error(t, err)
}

func TestUnmarshalRow_BufferTooShort(t *testing.T) {
	t.Parallel()

	var aRow Row
	err := UnmarshalRow(make([]byte, RowSize-1), &aRow)
	require.Error(t, err)
}
