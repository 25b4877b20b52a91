package importer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/envelope/internal/importer"
)

const sample = "Descrição;Montante\nCafé;12,50\nOperação;-3,00\n"

func TestDecode(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(sample))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sample))
	require.NoError(t, err)

	// a multi-byte rune straddling the sniff window must not look like latin-1
	long := strings.Repeat("a", 4095) + "ção;1,00\n"

	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{name: "UTF8", input: []byte(sample), want: sample, wantCharset: "UTF-8"},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, sample...), want: sample, wantCharset: "UTF-8"},
		{name: "UTF16LE", input: utf16le, want: sample, wantCharset: "UTF-16LE"},
		{name: "Windows1252", input: latin1, want: sample},
		{name: "RuneOnBoundary", input: []byte(long), want: long, wantCharset: "UTF-8"},
		{name: "Empty", input: nil, want: "", wantCharset: "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := importer.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	assert.Equal(t, []importer.Bank{importer.BankCGD}, svc.Banks())

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	params, err := svc.Import(importer.BankCGD, bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "CAFÉ CENTRAL", params[0].Label)
	assert.Equal(t, "-10.00", params[0].Amount.StringFixed(2))
}

func TestService_Import_Errors(t *testing.T) {
	svc := importer.NewService()

	_, err := svc.Import("bpi", strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown bank")

	_, err = svc.Import(importer.BankCGD, strings.NewReader("nothing;useful\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching CGD format")
}
