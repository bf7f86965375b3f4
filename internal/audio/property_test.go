package audio

import (
	"errors"
	"testing"

	ole "github.com/go-ole/go-ole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pkeyFormFactor = PropertyKey{Fmtid: *ole.NewGUID("{1DA5D803-D492-4EDD-8C23-E0C0FFEE7F0E}"), Pid: 0}
	pkeyIconPath   = PropertyKey{Fmtid: *ole.NewGUID("{259ABFFC-50A7-47CE-AF08-68C9A7D73366}"), Pid: 12}
	pkeyEmpty      = PropertyKey{Fmtid: *ole.NewGUID("{B3F8FA53-0004-438E-9003-51A46E139BFC}"), Pid: 6}
)

func TestPropertyKey_String(t *testing.T) {
	assert.Equal(t, "{A45C254E-DF1C-4EFD-8020-67D146A850E0} 14", PKeyDeviceFriendlyName.String())
}

func TestReadProperties(t *testing.T) {
	store := &fakeStore{entries: []fakeEntry{
		{key: PKeyDeviceFriendlyName, value: "Speakers (Realtek)"},
		{key: pkeyFormFactor, value: uint64(1)},
		{key: pkeyEmpty, value: nil},
		{key: pkeyIconPath, value: Blob{0x01, 0x02}},
	}}

	props, warnings, err := ReadProperties(store, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, map[string]any{
		PKeyDeviceFriendlyName.String(): "Speakers (Realtek)",
		pkeyFormFactor.String():         uint64(1),
		pkeyIconPath.String():           Blob{0x01, 0x02},
	}, props)
	assert.NotContains(t, props, pkeyEmpty.String())
}

func TestReadProperties_NilStore(t *testing.T) {
	props, warnings, err := ReadProperties(nil, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, props)
	assert.NotNil(t, props)
	assert.Empty(t, warnings)
}

func TestReadProperties_ValueFailureKeepsPlaceholder(t *testing.T) {
	boom := errors.New("unsupported VT")
	store := &fakeStore{entries: []fakeEntry{
		{key: pkeyFormFactor, valErr: boom},
		{key: PKeyDeviceFriendlyName, value: "Mic"},
	}}

	props, warnings, err := ReadProperties(store, "dev-1")
	require.NoError(t, err)

	v, ok := props[pkeyFormFactor.String()]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "Mic", props[PKeyDeviceFriendlyName.String()])

	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Index)
	assert.Equal(t, "dev-1", warnings[0].Owner)
	assert.Equal(t, pkeyFormFactor.String(), warnings[0].Key)
	assert.ErrorIs(t, warnings[0], boom)
	assert.Contains(t, warnings[0].Error(), `failed to read property 0 from device "dev-1"`)
}

func TestReadProperties_KeyFailureSkipsEntry(t *testing.T) {
	store := &fakeStore{entries: []fakeEntry{
		{keyErr: errors.New("bad index")},
		{key: PKeyDeviceFriendlyName, value: "Mic"},
	}}

	props, warnings, err := ReadProperties(store, "dev-1")
	require.NoError(t, err)
	assert.Len(t, props, 1)
	require.Len(t, warnings, 1)
	assert.Empty(t, warnings[0].Key)
}

func TestReadProperties_CountFailure(t *testing.T) {
	boom := errors.New("store gone")
	_, _, err := ReadProperties(&fakeStore{countErr: boom}, "dev-1")
	assert.ErrorIs(t, err, boom)
}

func TestReadProperties_ContinuesPastMidFailure(t *testing.T) {
	boom := errors.New("unsupported VT")
	keys := make([]PropertyKey, 5)
	for i := range keys {
		keys[i] = PropertyKey{Fmtid: pkeyFormFactor.Fmtid, Pid: uint32(100 + i)}
	}
	store := &fakeStore{entries: []fakeEntry{
		{key: keys[0], value: "a"},
		{key: keys[1], value: uint64(2)},
		{key: keys[2], valErr: boom},
		{key: keys[3], value: true},
		{key: keys[4], value: "e"},
	}}

	props, warnings, err := ReadProperties(store, "dev-1")
	require.NoError(t, err)
	require.Len(t, props, 5)

	populated := 0
	for _, v := range props {
		if v != nil {
			populated++
		}
	}
	assert.Equal(t, 4, populated)
	assert.Equal(t, "e", props[keys[4].String()])

	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Index)
	assert.Equal(t, keys[2].String(), warnings[0].Key)
	assert.ErrorIs(t, warnings[0], boom)
}
