package convert

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "(benchmark bench\n" +
	":source { ldd }\n" +
	":logic AUFLIA\n" +
	":status unknown\n" +
	":extrafuns (\n"

func sampleInput() string {
	return header +
		":extrapreds ((P3))\n" +
		":extrapreds ((P1))\n" +
		":extrapreds ((P2))\n" +
		"  (v12 FOO)\n" +
		"  (Bxyz FOO)\n" +
		")\n" +
		":formula\n" +
		"(exists (v12 Int) (and P3 (< v12 7)))\n" +
		"))\n"
}

func TestConvertSample(t *testing.T) {
	var out bytes.Buffer
	res, err := Convert(strings.NewReader(sampleInput()), &out)
	require.NoError(t, err)

	expected := DefaultDirective + "\n" +
		"  ( v12 Int)\n" +
		"  ( Bxyz Bool)\n" +
		")\n" +
		"(declare-preds (\n" +
		"( P3 )\n" +
		"( P1 )\n" +
		"( P2 )\n" +
		"))\n" +
		"(simplify\n" +
		"(exists (v12 Int) (and P3 (< v12 7)))\n" +
		"))\n"
	assert.Equal(t, expected, out.String())

	assert.Equal(t, []string{"P3", "P1", "P2"}, res.Predicates)
	assert.Equal(t, []VarDecl{{Name: "v12", Type: TypeInt}, {Name: "Bxyz", Type: TypeBool}}, res.Vars)
	assert.True(t, res.FormulaSeen)
	assert.Equal(t, 14, res.LinesRead)
	assert.Equal(t, 5, res.HeaderSkipped)
	assert.Equal(t, 3, res.PassedThrough)
}

func TestHeaderNeverInOutput(t *testing.T) {
	var out bytes.Buffer
	_, err := Convert(strings.NewReader(sampleInput()), &out)
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSuffix(header, "\n"), "\n") {
		assert.NotContains(t, out.String(), line)
	}
}

func TestDirectiveFirstForEmptyInput(t *testing.T) {
	inputs := []string{"", "only one line\n", header}
	for _, in := range inputs {
		var out bytes.Buffer
		res, err := Convert(strings.NewReader(in), &out)
		require.NoError(t, err)
		assert.Equal(t, DefaultDirective+"\n", out.String(), "input %q", in)
		assert.False(t, res.FormulaSeen)
	}
}

func TestSingleEmission(t *testing.T) {
	in := header +
		":extrapreds ((P1))\n" +
		":formula\n" +
		":extrapreds ((P9))\n" +
		"(and P1\n" +
		":formula again\n" +
		")\n"

	var out bytes.Buffer
	res, err := Convert(strings.NewReader(in), &out)
	require.NoError(t, err)

	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "(declare-preds ("))
	assert.Equal(t, 1, strings.Count(s, "(simplify"))
	assert.NotContains(t, s, "P9")
	assert.NotContains(t, s, ":formula")
	assert.True(t, strings.HasSuffix(s, "(simplify\n(and P1\n)\n"))

	assert.Equal(t, []string{"P1"}, res.Predicates)
	assert.Equal(t, []string{"P9"}, res.LatePredicates)
	assert.Equal(t, 1, res.RepeatedMarkers)
}

func TestEmptyPredicateBlock(t *testing.T) {
	in := header + ":formula\n(true)\n)\n"

	var out bytes.Buffer
	res, err := Convert(strings.NewReader(in), &out)
	require.NoError(t, err)

	expected := DefaultDirective + "\n(declare-preds (\n))\n(simplify\n(true)\n)\n"
	assert.Equal(t, expected, out.String())
	assert.Empty(t, res.Predicates)
	assert.True(t, res.FormulaSeen)
}

func TestVariablesTranslatedAfterFormula(t *testing.T) {
	in := header + ":formula\n  (v7 FOO)\n  (Bq FOO)\n"

	var out bytes.Buffer
	_, err := Convert(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.String(), "(simplify\n  ( v7 Int)\n  ( Bq Bool)\n"))
}

func TestPassThroughFidelity(t *testing.T) {
	body := []string{
		"(forall (x Int)\r\n",
		"\t(=> P1 (>= x 0)))\n",
		"\n",
		"   (v1 FOO)\n",
		")",
	}
	in := header + ":formula\n" + strings.Join(body, "")

	var out bytes.Buffer
	res, err := Convert(strings.NewReader(in), &out)
	require.NoError(t, err)

	for _, line := range body {
		assert.Contains(t, out.String(), line)
	}
	assert.True(t, strings.HasSuffix(out.String(), ")"))
	assert.False(t, strings.HasSuffix(out.String(), ")\n"))
	assert.Equal(t, len(body), res.PassedThrough)
}

func TestTransducerReuse(t *testing.T) {
	tr := NewTransducer(DefaultOptions())

	var first, second bytes.Buffer
	_, err := tr.Run(strings.NewReader(header+":extrapreds ((P1))\n:formula\n"), &first)
	require.NoError(t, err)
	res, err := tr.Run(strings.NewReader(header+":extrapreds ((P2))\n:formula\n"), &second)
	require.NoError(t, err)

	assert.Equal(t, []string{"P2"}, res.Predicates)
	assert.NotContains(t, second.String(), "P1")
}

func TestCustomOptions(t *testing.T) {
	var logs bytes.Buffer
	tr := NewTransducer(Options{
		Directive:   "(set-option :produce-models true)",
		HeaderLines: 1,
		Logger:      log.New(&logs, "", 0),
	})

	var out bytes.Buffer
	res, err := tr.Run(strings.NewReader("skip\n:formula\n:extrapreds ((P4))\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "(set-option :produce-models true)\n(declare-preds (\n))\n(simplify\n", out.String())
	assert.Equal(t, 1, res.HeaderSkipped)
	assert.Contains(t, logs.String(), "predicate P4 after :formula dropped")
}

func TestNegativeHeaderLines(t *testing.T) {
	var out bytes.Buffer
	_, err := NewTransducer(Options{HeaderLines: -3}).Run(strings.NewReader("keep\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, DefaultDirective+"\nkeep\n", out.String())
}

type failingReader struct{ data *strings.Reader }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.data.Len() == 0 {
		return 0, errors.New("disk gone")
	}
	return f.data.Read(p)
}

func TestReadErrorReturned(t *testing.T) {
	var out bytes.Buffer
	_, err := Convert(&failingReader{data: strings.NewReader(header)}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.True(t, strings.HasPrefix(out.String(), DefaultDirective))
}

func TestReadErrorFlushesConvertedLines(t *testing.T) {
	in := header + ":extrapreds ((P1))\n  (v1 FOO)\n:formula\n(and P1\n"

	var out bytes.Buffer
	res, err := Convert(&failingReader{data: strings.NewReader(in)}, &out)
	require.Error(t, err)

	expected := DefaultDirective + "\n" +
		"  ( v1 Int)\n" +
		"(declare-preds (\n( P1 )\n))\n(simplify\n" +
		"(and P1\n"
	assert.Equal(t, expected, out.String())
	assert.Equal(t, []string{"P1"}, res.Predicates)
	assert.True(t, res.FormulaSeen)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestWriteErrorReturned(t *testing.T) {
	_, err := Convert(strings.NewReader(sampleInput()), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directive")
}
