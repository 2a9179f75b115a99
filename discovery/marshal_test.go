package discovery

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturingEncoder() (*jsontext.Encoder, *bytes.Buffer) {
	b := &bytes.Buffer{}
	return jsontext.NewEncoder(
		b,
		jsontext.AllowDuplicateNames(false),
		jsontext.AllowInvalidUTF8(false),
		jsontext.SpaceAfterComma(false),
		jsontext.SpaceAfterColon(false),
		jsontext.Multiline(false),
	), b
}

func TestDefaultMarshalers(t *testing.T) {
	t.Run("URL as string", func(t *testing.T) {
		e, b := capturingEncoder()

		u, err := url.Parse("http://example.com")
		require.NoError(t, err)

		require.NoError(t, json.MarshalEncode(e, map[string]*url.URL{"sut": u}, json.WithMarshalers(Marshalers)))

		assert.Equal(t, `{"sut":"http://example.com"}`, strings.TrimSpace(b.String()))
	})

	t.Run("Duration as integer seconds", func(t *testing.T) {
		e, b := capturingEncoder()

		d := 5*time.Minute + 42*time.Second + 123*time.Millisecond

		require.NoError(t, json.MarshalEncode(e, map[string]time.Duration{"sut": d}, json.WithMarshalers(Marshalers)))

		assert.Equal(t, `{"sut":342}`, strings.TrimSpace(b.String()))
	})
}

func TestMarshalString(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MarshalString(e, "foo", ""))
		require.EqualValues(t, "\"foo\"\n\"\"\n", b.String())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MarshalString(e, "foo", "bar"))
		require.EqualValues(t, "\"foo\"\n\"bar\"\n", b.String())
	})
}

func TestMaybeMarshalString(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalString(e, "foo", ""))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalString(e, "foo", "bar"))
		require.EqualValues(t, "\"foo\"\n\"bar\"\n", b.String())
	})
}

func TestMarshalFloat(t *testing.T) {
	for _, tt := range []struct {
		v    float64
		want string
	}{
		{v: 0, want: "0"},
		{v: 100, want: "100"},
		{v: 0.5, want: "0.5"},
		{v: -12.25, want: "-12.25"},
	} {
		t.Run(tt.want, func(t *testing.T) {
			e, b := capturingEncoder()

			require.NoError(t, MarshalFloat(e, "foo", tt.v))
			require.EqualValues(t, "\"foo\"\n"+tt.want+"\n", b.String())
		})
	}
}

func TestMaybeMarshalTopic(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalTopic(e, "foo", "bar/", ""))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalTopic(e, "foo", "bar/", "fizz/buzz"))
		require.EqualValues(t, "\"foo\"\n\"bar/fizz/buzz\"\n", b.String())
	})
}

func TestMaybeMarshalStd(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStd[int](e, "foo", nil))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		v := 123
		require.NoError(t, MaybeMarshalStd[int](e, "foo", &v))
		require.EqualValues(t, `"foo"
123
`, b.String())
	})
}

func TestMaybeMarshalStdSlice(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		t.Run("no elements", func(t *testing.T) {
			e, b := capturingEncoder()

			require.NoError(t, MaybeMarshalStdSlice[string](e, "foo", []string{}))
			require.Empty(t, b.Bytes())
		})

		t.Run("nil", func(t *testing.T) {
			e, b := capturingEncoder()

			require.NoError(t, MaybeMarshalStdSlice[string](e, "foo", nil))
			require.Empty(t, b.Bytes())
		})
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdSlice(e, "foo", []string{"low", "medium", "high"}))
		require.EqualValues(t, `"foo"
["low","medium","high"]
`, b.String())
	})
}

func TestMaybeMarshalStdComparable(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		e, b := capturingEncoder()

		var v time.Duration

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", v))
		require.Empty(t, b.Bytes())
	})

	t.Run("Not Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", 90*time.Second))
		require.EqualValues(t, `"foo"
90
`, b.String())
	})
}
