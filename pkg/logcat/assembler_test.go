package logcat

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembler_SingleLine(t *testing.T) {
	a := NewAssembler()

	out, err := a.Feed("01-01 00:00:00.000 100 200 I Tag: hello")
	require.NoError(t, err)
	require.Empty(t, out, "record must wait for the next line or end of input")
	require.True(t, a.Pending())

	out = a.Close()
	require.Len(t, out, 1)
	require.Equal(t, &Record{
		Timestamp: Timestamp{Month: 1, Day: 1},
		PID:       100,
		TID:       200,
		Priority:  PriorityInfo,
		Tag:       "Tag",
		Message:   "hello",
		LineNum:   1,
		Lines:     1,
	}, out[0].Record)
	require.False(t, a.Pending())
}

func TestAssembler_Continuations(t *testing.T) {
	for n := 0; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d continuations", n), func(t *testing.T) {
			lines := []string{"01-01 00:00:00.000 1 2 E AndroidRuntime: FATAL EXCEPTION: main"}
			want := []string{"FATAL EXCEPTION: main"}
			for i := 0; i < n; i++ {
				cont := fmt.Sprintf("\tat com.example.Frame%d(Frame.java:%d)", i, i+10)
				lines = append(lines, cont)
				want = append(want, cont)
			}

			results := ParseLines(lines)
			require.Len(t, results, 1)
			require.NoError(t, results[0].Err)
			require.Equal(t, strings.Join(want, "\n"), results[0].Record.Message)
			require.Equal(t, n+1, results[0].Record.Lines)
			require.Equal(t, "AndroidRuntime", results[0].Record.Tag)
		})
	}
}

func TestAssembler_ConsecutiveHeaders(t *testing.T) {
	a := NewAssembler()

	out, err := a.Feed("01-01 00:00:00.000 1 1 I first: one")
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = a.Feed("01-01 00:00:00.001 1 1 I second: two")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "first", out[0].Record.Tag)
	require.Equal(t, "one", out[0].Record.Message)

	out = a.Close()
	require.Len(t, out, 1)
	require.Equal(t, "second", out[0].Record.Tag)
	require.Equal(t, "two", out[0].Record.Message)
	require.Equal(t, 2, out[0].Record.LineNum)
}

func TestAssembler_OrphanLine(t *testing.T) {
	results := ParseLines([]string{"stray continuation text"})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Record)
	require.ErrorIs(t, results[0].Err, ErrOrphanLine)
	require.Equal(t, 1, results[0].LineNum)

	perr := results[0].Err.(*ParseError)
	require.Equal(t, "stray continuation text", perr.Line)
	require.Equal(t, 1, perr.LineNum)
}

func TestAssembler_MalformedPID(t *testing.T) {
	results := ParseLines([]string{"01-01 00:00:00.000 abc 200 I Tag: hello"})
	require.Len(t, results, 1)
	require.Nil(t, results[0].Record)
	require.ErrorIs(t, results[0].Err, ErrMalformedHeader)
	require.Equal(t, FieldPID, results[0].Err.(*ParseError).Field)
}

func TestAssembler_MalformedHeaderClosesRecord(t *testing.T) {
	a := NewAssembler()

	_, err := a.Feed("01-01 00:00:00.000 1 1 I Tag: hello")
	require.NoError(t, err)
	_, err = a.Feed("  continued")
	require.NoError(t, err)

	out, err := a.Feed("01-01 00:00:00.000 1 x I Tag: broken")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "hello\n  continued", out[0].Record.Message)
	require.ErrorIs(t, out[1].Err, ErrMalformedHeader)
	require.Equal(t, 3, out[1].LineNum)
	require.False(t, a.Pending())

	// The assembler is idle again, so a non-header line is now an orphan.
	out, err = a.Feed("after the bad header")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.ErrorIs(t, out[0].Err, ErrOrphanLine)

	require.Empty(t, a.Close())
}

func TestAssembler_AdversarialContinuations(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		folded     bool
		errorField string
	}{
		{"digits then dash word", "12-step program", true, ""},
		{"single digit date", "1-2 things", true, ""},
		{"iso date", "2024-01-15 10:30:00 payload", true, ""},
		{"date-like range", "10-20 items processed", false, FieldHour},
		{"date-like with time", "10-20 10:00:00.000 then text", false, FieldPID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := ParseLines([]string{
				"01-01 00:00:00.000 1 1 I Tag: head",
				tt.line,
			})

			if tt.folded {
				require.Len(t, results, 1)
				require.Equal(t, "head\n"+tt.line, results[0].Record.Message)
				return
			}

			require.Len(t, results, 2)
			require.Equal(t, "head", results[0].Record.Message)
			require.ErrorIs(t, results[1].Err, ErrMalformedHeader)
			require.Equal(t, tt.errorField, results[1].Err.(*ParseError).Field)
		})
	}
}

func TestAssembler_BlankLines(t *testing.T) {
	results := ParseLines([]string{
		"",
		"01-01 00:00:00.000 1 1 I Tag: head",
		"",
		"tail",
	})
	require.Len(t, results, 2)
	require.ErrorIs(t, results[0].Err, ErrOrphanLine)
	require.Equal(t, "head\n\ntail", results[1].Record.Message)
	require.Equal(t, 3, results[1].Record.Lines)
}

func TestAssembler_Closed(t *testing.T) {
	a := NewAssembler()
	require.Empty(t, a.Close())

	_, err := a.Feed("01-01 00:00:00.000 1 1 I Tag: late")
	require.ErrorIs(t, err, ErrAssemblerClosed)
	require.Empty(t, a.Close())
}

func TestAssembler_Separator(t *testing.T) {
	results := ParseLines([]string{
		"01-01 00:00:00.000 1 1 I Tag: a",
		"b",
		"c",
	}, WithSeparator(" | "))
	require.Len(t, results, 1)
	require.Equal(t, "a | b | c", results[0].Record.Message)
}

func TestAssembler_Banners(t *testing.T) {
	lines := []string{
		"--------- beginning of main",
		"01-01 00:00:00.000 1 1 I Tag: a",
		"--------- switch to system",
		"01-01 00:00:00.001 1 1 W Other: b",
	}

	t.Run("enabled", func(t *testing.T) {
		results := ParseLines(lines, WithBanners(true))
		require.Len(t, results, 4)
		require.Equal(t, "main", results[0].Banner)
		require.Equal(t, BannerBeginning, results[0].BannerKind)
		require.Equal(t, lines[0], results[0].BannerText())
		require.Equal(t, 1, results[0].LineNum)
		require.Equal(t, "a", results[1].Record.Message)
		require.Equal(t, "system", results[2].Banner)
		require.Equal(t, BannerSwitch, results[2].BannerKind)
		require.Equal(t, lines[2], results[2].BannerText())
		require.Equal(t, "b", results[3].Record.Message)
	})

	t.Run("no buffer name", func(t *testing.T) {
		results := ParseLines([]string{"--------- switch to "}, WithBanners(true))
		require.Len(t, results, 1)
		require.ErrorIs(t, results[0].Err, ErrOrphanLine)
	})

	t.Run("disabled", func(t *testing.T) {
		results := ParseLines(lines)
		require.Len(t, results, 3)
		require.ErrorIs(t, results[0].Err, ErrOrphanLine)
		require.Equal(t, "a\n--------- switch to system", results[1].Record.Message)
		require.Equal(t, "b", results[2].Record.Message)
	})
}

func TestAssembler_Idempotent(t *testing.T) {
	lines := []string{
		"noise",
		"01-01 00:00:00.000 1 1 I Tag: a",
		"more",
		"01-01 00:00:00.000 x 1 I Tag: bad",
		"01-02 03:04:05.678 99 100 X Odd: b",
	}
	require.Equal(t, ParseLines(lines), ParseLines(lines))
}

func TestRecord_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	priorities := []Priority{'V', 'D', 'I', 'W', 'E', 'F', 'A', 'S', 'X'}
	words := []string{"alpha", "beta", "gamma", "delta:", "x=1", "  indented"}

	for i := 0; i < 200; i++ {
		rec := &Record{
			Timestamp: Timestamp{
				Month:       1 + rng.IntN(12),
				Day:         1 + rng.IntN(31),
				Hour:        rng.IntN(24),
				Minute:      rng.IntN(60),
				Second:      rng.IntN(60),
				Millisecond: rng.IntN(1000),
			},
			PID:      rng.IntN(100000),
			TID:      rng.IntN(100000),
			Priority: priorities[rng.IntN(len(priorities))],
			Tag:      fmt.Sprintf("Tag%d", rng.IntN(50)),
			LineNum:  1,
			Lines:    1 + rng.IntN(3),
		}
		parts := []string{words[rng.IntN(len(words))] + " head"}
		for j := 1; j < rec.Lines; j++ {
			parts = append(parts, words[rng.IntN(len(words))]+" tail")
		}
		rec.Message = strings.Join(parts, "\n")

		results := ParseLines(strings.Split(rec.String(), "\n"))
		require.Len(t, results, 1, rec.String())
		require.Equal(t, rec, results[0].Record, rec.String())
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp{Month: 3, Day: 4, Hour: 5, Minute: 6, Second: 7, Millisecond: 8}
	require.Equal(t, "03-04 05:06:07.008", ts.String())
	require.Empty(t, ts.Validate())

	later := ts
	later.Millisecond++
	require.Equal(t, -1, ts.Compare(later))
	require.Equal(t, 1, later.Compare(ts))
	require.Equal(t, 0, ts.Compare(ts))

	require.Equal(t, FieldDay, Timestamp{Month: 1, Day: 0}.Validate())
	require.Equal(t, FieldMillisecond, Timestamp{Month: 1, Day: 1, Millisecond: 1000}.Validate())
}

func TestPriority(t *testing.T) {
	require.True(t, PriorityError.AtLeast(PriorityWarn))
	require.True(t, PriorityWarn.AtLeast(PriorityWarn))
	require.False(t, PriorityInfo.AtLeast(PriorityWarn))
	require.True(t, PriorityAssert.AtLeast(PriorityFatal))
	require.False(t, Priority('X').AtLeast(PriorityVerbose))

	require.Equal(t, "Warn", PriorityWarn.String())
	require.Equal(t, "Unknown(X)", Priority('X').String())
	require.Equal(t, "W", PriorityWarn.Short())
	require.Equal(t, 0, Priority('X').Severity())
}
