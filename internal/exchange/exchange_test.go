package exchange

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationMessageKeepsOptionalFields(t *testing.T) {
	alt, acc := 142.5, 8.0
	rec := &models.LocationRecord{
		Phone:        "+15550001",
		SubscriberID: "abc",
		Latitude:     10.5,
		Longitude:    -20.25,
		Altitude:     &alt,
		Accuracy:     &acc,
		Timestamp:    1700000000,
		Timezone:     "UTC",
		Signature:    "00",
	}

	got, err := UnmarshalLocation(MarshalLocation(rec))
	require.NoError(t, err)

	rec.Origin = models.OriginPeer
	assert.Equal(t, rec, got)
}

func TestLocationMessageWithoutAltitude(t *testing.T) {
	got, err := UnmarshalLocation(MarshalLocation(&models.LocationRecord{Phone: "p", Timestamp: 5}))
	require.NoError(t, err)
	assert.Nil(t, got.Altitude)
	assert.Nil(t, got.Accuracy)
	assert.Equal(t, int64(5), got.Timestamp)
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	msg := MarshalIncident(&models.IncidentRecord{Phone: "p", Title: "t", Timestamp: 9})
	msg = protowire.AppendTag(msg, 42, protowire.BytesType)
	msg = protowire.AppendString(msg, "future field")

	got, err := UnmarshalIncident(msg)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, int64(9), got.Timestamp)
}

func TestWrongWireTypeIsRejected(t *testing.T) {
	msg := protowire.AppendTag(nil, locTimestamp, protowire.BytesType)
	msg = protowire.AppendString(msg, "soon")

	_, err := UnmarshalLocation(msg)
	assert.Error(t, err)
}

func TestReaderFramesAndEOF(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Frame([]byte("one")))
	buf.Write(Frame(nil))
	buf.Write(Frame([]byte("three")))

	r := NewReader(&buf)
	for _, want := range []string{"one", "", "three"} {
		msg, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want, string(msg))
	}
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderTruncatedStream(t *testing.T) {
	framed := Frame([]byte("truncated message"))
	r := NewReader(bytes.NewReader(framed[:len(framed)-3]))

	_, err := r.Next()
	assert.ErrorIs(t, err, ErrMalformedStream)
}

func TestFileNameRoundTrip(t *testing.T) {
	day := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	name := FileName("+1 (555) 010-AB", day, KindIncident)
	assert.Equal(t, "1555010ab_20240309.incidents.pb", name)

	device, kind, ok := ParseFileName(filepath.Join("/inbox", name))
	require.True(t, ok)
	assert.Equal(t, "1555010ab", device)
	assert.Equal(t, KindIncident, kind)

	_, _, ok = ParseFileName("notes.txt")
	assert.False(t, ok)
	_, _, ok = ParseFileName("dev_2024.locations.pb")
	assert.False(t, ok)
}

func TestWriterAppendsWithoutRewriting(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "+15550001")
	require.NoError(t, err)

	first := &models.LocationRecord{Phone: "+15550001", Timestamp: 1700000000, Timezone: "UTC"}
	second := &models.LocationRecord{Phone: "+15550001", Timestamp: 1700000060, Timezone: "UTC"}
	require.NoError(t, w.AppendLocation(first))
	require.NoError(t, w.AppendLocation(second))

	path := filepath.Join(dir, FileName("+15550001", time.Unix(first.Timestamp, 0), KindLocation))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := NewReader(f)
	var got []int64
	for {
		msg, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rec, err := UnmarshalLocation(msg)
		require.NoError(t, err)
		got = append(got, rec.Timestamp)
	}
	assert.Equal(t, []int64{1700000000, 1700000060}, got)
}
