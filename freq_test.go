// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"errors"
	"maps"
	"math/rand/v2"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFrequencyTable(t *testing.T) {
	ft := NewFrequencyTable()
	if err := ft.Update([]byte("Hello")); err != nil {
		t.Fatal(err)
	}
	want := map[Symbol]uint64{'H': 1, 'e': 1, 'l': 2, 'o': 1}
	if got := ft.counts; !maps.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if ft.Len() != 4 || ft.Total() != 5 {
		t.Errorf("Len, Total = %d, %d; want 4, 5", ft.Len(), ft.Total())
	}
	if got := string(ft.Symbols()); got != "Helo" {
		t.Errorf("Symbols = %q, want %q", got, "Helo")
	}
}

func TestFrequencyTableEmpty(t *testing.T) {
	ft := NewFrequencyTable()
	if err := ft.Update(nil); err != nil {
		t.Fatal(err)
	}
	if err := ft.Close(); err != nil {
		t.Fatal(err)
	}
	if ft.Len() != 0 {
		t.Errorf("Len = %d, want 0", ft.Len())
	}
	if _, err := ft.Code(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Code: got %v, want ErrEmpty", err)
	}
}

// Splitting the input at every possible place gives the same counts.
func TestFrequencyTableSplits(t *testing.T) {
	const text = "aé€😀b \U0010FFFF�"
	whole := countString(t, text)
	for i := range len(text) + 1 {
		for j := i; j < len(text)+1; j++ {
			ft := NewFrequencyTable()
			for _, chunk := range []string{text[:i], text[i:j], text[j:]} {
				if err := ft.Update([]byte(chunk)); err != nil {
					t.Fatalf("split at %d, %d: %v", i, j, err)
				}
			}
			if err := ft.Close(); err != nil {
				t.Fatalf("split at %d, %d: %v", i, j, err)
			}
			if !maps.Equal(ft.counts, whole.counts) {
				t.Errorf("split at %d, %d: got %v, want %v", i, j, ft.counts, whole.counts)
			}
		}
	}
}

func TestFrequencyTableOneByteAtATime(t *testing.T) {
	text := randomText(2000)
	whole := countString(t, text)
	ft := NewFrequencyTable()
	if err := ft.Count(iotest.OneByteReader(strings.NewReader(text))); err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(ft.counts, whole.counts) {
		t.Error("byte-at-a-time counts differ")
	}
}

// A symbol split exactly at a chunk boundary is counted once.
func TestCountChunkBoundary(t *testing.T) {
	text := strings.Repeat("x", ChunkSize-2) + "😀" + strings.Repeat("y", 10)
	ft := NewFrequencyTable()
	if err := ft.Count(strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	want := map[Symbol]uint64{'x': ChunkSize - 2, '😀': 1, 'y': 10}
	if !maps.Equal(ft.counts, want) {
		t.Errorf("got %v, want %v", ft.counts, want)
	}
}

func TestFrequencyTableInvalid(t *testing.T) {
	for _, test := range []struct {
		name   string
		chunks []string
	}{
		{"bad start byte", []string{"ab\xffcd"}},
		{"bad continuation", []string{"a\xe2\x28\xa1"}},
		{"surrogate", []string{"\xed\xa0\x80"}},
		{"bad continuation across chunks", []string{"a\xe2", "(b"}},
		{"truncated at end", []string{"abc\xe2\x82"}},
		{"truncated at end after chunks", []string{"\xf0", "\x9f", "\x98"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			ft := NewFrequencyTable()
			var err error
			for _, c := range test.chunks {
				if err = ft.Update([]byte(c)); err != nil {
					break
				}
			}
			if err == nil {
				err = ft.Close()
			}
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("got %v, want ErrEncoding", err)
			}
		})
	}
}

func TestFrequencyTableWrite(t *testing.T) {
	ft := NewFrequencyTable()
	n, err := ft.Write([]byte("añ"))
	if err != nil || n != 3 {
		t.Fatalf("Write = %d, %v; want 3, nil", n, err)
	}
	if _, err := ft.Write([]byte{0xff}); !errors.Is(err, ErrEncoding) {
		t.Errorf("got %v, want ErrEncoding", err)
	}
}

func TestCountReadError(t *testing.T) {
	ft := NewFrequencyTable()
	err := ft.Count(iotest.ErrReader(errors.New("boom")))
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Errorf("got %v, want an *IOError", err)
	}
}

func countString(t *testing.T, s string) *FrequencyTable {
	t.Helper()
	ft := NewFrequencyTable()
	if err := ft.Update([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := ft.Close(); err != nil {
		t.Fatal(err)
	}
	return ft
}

// randomText returns n symbols drawn with a skewed distribution from a
// mix of one- to four-byte encodings.
func randomText(n int) string {
	alphabet := []rune("eeeeeeeetttaaoinshrdlu ,.\néàß€中文😀🚀")
	var sb strings.Builder
	for range n {
		sb.WriteRune(alphabet[rand.IntN(len(alphabet))])
	}
	return sb.String()
}
