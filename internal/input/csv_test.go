package input

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestReaderSkipsHeader(t *testing.T) {
	src := "SamAccountName,GivenName,Surname,Mail,Department,OU,Groups\n" +
		"jdoe,John,Doe,jdoe@example.com,Engineering,Berlin,Developers\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"jdoe", "John", "Doe", "jdoe@example.com", "Engineering", "Berlin", "Developers"}, fields)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderPadsShortRows(t *testing.T) {
	src := "header\n" +
		"jdoe,John,Doe\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	require.Len(t, fields, FieldCount)
	assert.Equal(t, "jdoe", fields[0])
	assert.Equal(t, "", fields[6])
}

func TestReaderTruncatesLongRows(t *testing.T) {
	src := "header\n" +
		"jdoe,John,Doe,m,d,Berlin,Developers,extra,junk\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	require.Len(t, fields, FieldCount)
	assert.Equal(t, "Developers", fields[6])
}

func TestReaderHandlesUTF8BOM(t *testing.T) {
	src := "\xEF\xBB\xBFSamAccountName,GivenName\n" +
		"jdoe,John\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "jdoe", fields[0])
}

func TestReaderHandlesUTF16(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	src, err := encoder.String("SamAccountName,GivenName\njdoe,Jöhn\n")
	require.NoError(t, err)

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "jdoe", fields[0])
	assert.Equal(t, "Jöhn", fields[1])
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), zerolog.Nop())

	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderHeaderOnly(t *testing.T) {
	r := NewReader(strings.NewReader("SamAccountName,GivenName\n"), zerolog.Nop())

	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderQuotedFields(t *testing.T) {
	src := "header\n" +
		"jdoe,\"Doe, John\",Doe,,,Berlin,\"Developers;Operators\"\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	fields, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Doe, John", fields[1])
	assert.Equal(t, "Developers;Operators", fields[6])
}

func TestReadAll(t *testing.T) {
	src := "header\n" +
		"a,1\n" +
		"b,2\n" +
		"c,3\n"

	r := NewReader(strings.NewReader(src), zerolog.Nop())

	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0][0])
	assert.Equal(t, "c", records[2][0])
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestReaderPropagatesIOError(t *testing.T) {
	r := NewReader(brokenReader{}, zerolog.Nop())

	_, err := r.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
