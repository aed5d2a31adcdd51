package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	keyRef, err := GenerateKey()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(keyRef)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)

	other, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, keyRef, other)
}

func TestNew_KeyLength(t *testing.T) {
	tests := []struct {
		name   string
		keyRef string
	}{
		{name: "not base64", keyRef: "%%%not-base64%%%"},
		{name: "too short", keyRef: base64.StdEncoding.EncodeToString(make([]byte, 16))},
		{name: "too long", keyRef: base64.StdEncoding.EncodeToString(make([]byte, 48))},
		{name: "empty", keyRef: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.keyRef)
			assert.ErrorIs(t, err, ErrKeyLength)
		})
	}
}

func TestKeybox_RoundTrip(t *testing.T) {
	keyRef, err := GenerateKey()
	require.NoError(t, err)

	box, err := New(keyRef)
	require.NoError(t, err)

	plaintexts := []string{"", "p@ss", "пароль", "a very long secret repeated many times to cross block boundaries"}
	for _, p := range plaintexts {
		blob, err := box.Encrypt(p)
		require.NoError(t, err)

		got, err := box.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestKeybox_UniqueNonce(t *testing.T) {
	keyRef, err := GenerateKey()
	require.NoError(t, err)

	box, err := New(keyRef)
	require.NoError(t, err)

	first, err := box.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := box.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestKeybox_TamperedCiphertext(t *testing.T) {
	keyRef, err := GenerateKey()
	require.NoError(t, err)

	box, err := New(keyRef)
	require.NoError(t, err)

	blob, err := box.Encrypt("p@ss")
	require.NoError(t, err)

	sealed, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flip one bit in the last byte of the ciphertext.
	sealed[len(sealed)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(sealed)

	_, err = box.Decrypt(tampered)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestKeybox_WrongKey(t *testing.T) {
	keyA, err := GenerateKey()
	require.NoError(t, err)
	keyB, err := GenerateKey()
	require.NoError(t, err)

	boxA, err := New(keyA)
	require.NoError(t, err)
	boxB, err := New(keyB)
	require.NoError(t, err)

	blob, err := boxA.Encrypt("p@ss")
	require.NoError(t, err)

	_, err = boxB.Decrypt(blob)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestKeybox_TruncatedBlob(t *testing.T) {
	keyRef, err := GenerateKey()
	require.NoError(t, err)

	box, err := New(keyRef)
	require.NoError(t, err)

	short := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02})
	_, err = box.Decrypt(short)
	assert.ErrorIs(t, err, ErrIntegrity)

	_, err = box.Decrypt("***")
	assert.ErrorIs(t, err, ErrIntegrity)
}
