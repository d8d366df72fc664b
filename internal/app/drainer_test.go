package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/ooqd/internal/domain"
	"github.com/bft-labs/ooqd/internal/registry"
)

func TestDrain_Transcripts(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir(filepath.Join("testdata", "golden")))

	tests := []struct {
		name      string
		input     string
		wantCalls [][]string
		wantErr   error
		files     map[string]string
	}{
		{
			name:      "comment_and_blank",
			input:     "\n# hello\n   \nping 127.0.0.1\n",
			wantCalls: [][]string{{"ping", "127.0.0.1"}},
		},
		{
			name:      "append_redirection",
			input:     "httpget http://example/ >>/tmp/out\n",
			wantCalls: [][]string{{"httpget", "http://example/"}},
			files:     map[string]string{"/tmp/out": "body\n"},
		},
		{
			name:      "quoted_argument",
			input:     "tdig \"example.com AAAA\" >/tmp/t\n",
			wantCalls: [][]string{{"tdig", "example.com AAAA"}},
			files:     map[string]string{"/tmp/t": "answer\n"},
		},
		{
			name:    "unknown_command",
			input:   "bogus x y\nping 1.1.1.1\n",
			wantErr: domain.ErrUnknownCommand,
		},
		{
			name:    "line_too_long",
			input:   strings.Repeat("a", 300) + "\nping 8.8.8.8\n",
			wantErr: domain.ErrLineTooLong,
		},
		{
			name:      "skipped_lines",
			input:     "ping \"unterminated\nping " + strings.Repeat("x ", 19) + "\nping6 ::1\n",
			wantCalls: [][]string{{"ping6", "::1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			require.NoError(t, f.fs.MkdirAll("/tmp", 0o755))

			_, err := f.drainer.Drain(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantCalls, f.rec.Calls())
			for path, want := range tt.files {
				got, err := afero.ReadFile(f.fs, path)
				require.NoError(t, err)
				assert.Equal(t, want, string(got))
			}
			assert.Empty(t, f.stdout.String())

			g.Assert(t, tt.name, f.diag.Bytes())
		})
	}
}

func TestDrain_Stats(t *testing.T) {
	f := newFixture(t, nil)

	input := "# c\nping a\nping \"open\nping6 b\nbogus\n"
	stats, err := f.drainer.Drain(context.Background(), strings.NewReader(input))
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	assert.NotEmpty(t, stats.ID)
	assert.Equal(t, 5, stats.Lines)
	assert.Equal(t, 2, stats.Executed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, domain.AbortUnknownCommand, stats.Aborted)
	assert.False(t, stats.Completed())
	assert.False(t, stats.FinishedAt.Before(stats.StartedAt))
}

func TestDrain_InOrder(t *testing.T) {
	f := newFixture(t, nil)

	var b strings.Builder
	var want [][]string
	for i := 0; i < 50; i++ {
		host := strings.Repeat("h", i%7+1)
		b.WriteString("ping " + host + "\n")
		want = append(want, []string{"ping", host})
	}

	stats, err := f.drainer.Drain(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.True(t, stats.Completed())
	assert.Equal(t, want, f.rec.Calls())
}

func TestDrain_LineLengthBoundary(t *testing.T) {
	// 254 bytes of text plus the newline is the longest accepted line.
	longest := "ping " + strings.Repeat("a", domain.MaxLineLen-len("ping ")-1)
	require.Len(t, longest+"\n", domain.MaxLineLen)

	f := newFixture(t, nil)
	_, err := f.drainer.Drain(context.Background(), strings.NewReader(longest+"\n"+longest+"a\nping after\n"))
	assert.ErrorIs(t, err, domain.ErrLineTooLong)
	require.Len(t, f.rec.Calls(), 1)
	assert.Equal(t, strings.Fields(longest), f.rec.Calls()[0])
}

func TestDrain_PartialLastLine(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.drainer.Drain(context.Background(), strings.NewReader("ping one\nping two"))
	assert.ErrorIs(t, err, domain.ErrLineTooLong)
	assert.Equal(t, [][]string{{"ping", "one"}}, f.rec.Calls())
	assert.Contains(t, f.diag.String(), "ooqd: line 'ping two' too long\n")
}

func TestDrain_CommandNeedsArgumentSeparator(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.drainer.Drain(context.Background(), strings.NewReader("ping\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
	assert.Equal(t, "ooqd: nothing found for 'ping'\n", f.diag.String())
}

func TestDrain_RedirectFailureAborts(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.drainer.Drain(context.Background(), strings.NewReader("ping a >\nping b\n"))
	assert.ErrorIs(t, err, domain.ErrRedirect)
	assert.Empty(t, f.rec.Calls())
}

func TestDrain_RedirectIsPerLine(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.fs.MkdirAll("/tmp", 0o755))

	_, err := f.drainer.Drain(context.Background(), strings.NewReader("httpget u >/tmp/a\nhttpget v\n"))
	require.NoError(t, err)

	got, err := afero.ReadFile(f.fs, "/tmp/a")
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(got))
	assert.Equal(t, "body\n", f.stdout.String())
}

func TestDrain_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stopper := registry.Entry{Name: "stop", Handler: func(context.Context, *registry.Env, []string) int {
		cancel()
		return 0
	}}
	f := newFixture(t, nil, stopper)

	stats, err := f.drainer.Drain(ctx, strings.NewReader("stop now\nping never\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.AbortCanceled, stats.Aborted)
	assert.Empty(t, f.rec.Calls())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDrain_ReadError(t *testing.T) {
	f := newFixture(t, nil)
	boom := errors.New("device gone")

	stats, err := f.drainer.Drain(context.Background(), io.MultiReader(strings.NewReader("ping a\n"), failingReader{boom}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.AbortReadError, stats.Aborted)
	assert.Equal(t, [][]string{{"ping", "a"}}, f.rec.Calls())
	assert.Contains(t, f.diag.String(), "ooqd: read failed: device gone\n")
}
