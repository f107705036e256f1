package assets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURI(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	data, contentType, err := decodeImage(payload)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeImageRawBase64DefaultsToJPEG(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	data, contentType, err := decodeImage(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, _, err := decodeImage("not base64!!")
	assert.Error(t, err)

	_, _, err = decodeImage("")
	assert.Error(t, err)

	_, _, err = decodeImage("data:image/png;base64")
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".jpg", extensionFor("application/octet-stream"))
}

func TestNewValidatesEndpointAndBucket(t *testing.T) {
	_, err := New("", false, "key", "secret", "bucket", "")
	assert.Error(t, err)

	_, err = New("http://localhost:9000", false, "key", "secret", "", "")
	assert.Error(t, err)

	c, err := New("http://localhost:9000", false, "key", "secret", "homestay-listings", "http://cdn.local/")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local", c.publicBaseURL)
}
