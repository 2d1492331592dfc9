// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"
)

func TestCompressLayout(t *testing.T) {
	var buf bytes.Buffer
	st, err := Compress(strings.NewReader("aaabcccc"), &buf)
	if err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()

	header, err := MarshalTree(mustTree(t, "aaabcccc"))
	if err != nil {
		t.Fatal(err)
	}
	var want []byte
	want = binary.BigEndian.AppendUint32(want, uint32(len(header)))
	want = append(want, header...)
	want = binary.BigEndian.AppendUint32(want, 3)
	want = append(want, 0b11111110, 0b00000000, 4)
	if !bytes.Equal(got, want) {
		t.Errorf("\ngot  %v\nwant %v", got, want)
	}

	if st.InputBytes != 8 || st.OutputBytes != int64(len(want)) || st.Symbols != 8 || st.Distinct != 3 ||
		st.HeaderBytes != len(header) || st.PayloadBytes != 3 {
		t.Errorf("bad stats: %+v", st)
	}
	if st.Table == nil || st.Table.Freq('c') != 4 {
		t.Error("Stats.Table not set")
	}
}

func TestCompressEmpty(t *testing.T) {
	var buf bytes.Buffer
	st, err := Compress(strings.NewReader(""), &buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0, 1, 8}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %v, want %v", buf.Bytes(), want)
	}
	if st.Code != nil || st.Ratio() != 0 {
		t.Errorf("bad stats: %+v", st)
	}

	var out bytes.Buffer
	if _, err := Decompress(bytes.NewReader(buf.Bytes()), &out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("decompressed %q, want nothing", out.String())
	}
}

func TestCompressRoundTrip(t *testing.T) {
	for _, text := range []string{
		"a",
		"aaa",
		"hello, world\n",
		"Ünïcödé: ∀x∈ℝ, x² ≥ 0 🎉",
		strings.Repeat("x", ChunkSize-1) + "ü" + strings.Repeat("y", ChunkSize),
		randomText(5000),
	} {
		var comp bytes.Buffer
		if _, err := Compress(strings.NewReader(text), &comp); err != nil {
			t.Fatal(err)
		}
		var out bytes.Buffer
		st, err := Decompress(iotest.HalfReader(bytes.NewReader(comp.Bytes())), &out)
		if err != nil {
			t.Fatalf("%.20q: %v", text, err)
		}
		if out.String() != text {
			t.Errorf("%.20q: round trip gave %.20q", text, out.String())
		}
		if st.InputBytes != int64(comp.Len()) || st.OutputBytes != int64(len(text)) {
			t.Errorf("%.20q: bad stats %+v", text, st)
		}
	}
}

func TestCompressInvalid(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Compress(strings.NewReader("ok\xc3"), &buf); !errors.Is(err, ErrEncoding) {
		t.Errorf("got %v, want ErrEncoding", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for invalid input", buf.Len())
	}
}

func TestDecompressErrors(t *testing.T) {
	var comp bytes.Buffer
	if _, err := Compress(strings.NewReader("abracadabra"), &comp); err != nil {
		t.Fatal(err)
	}
	good := comp.Bytes()
	hsize := int(binary.BigEndian.Uint32(good))

	badLeaf := bytes.Clone(good)
	// The first leaf's value starts at bit 2 of the header; set its top bit.
	badLeaf[4] |= 0b0010_0000

	badCount := bytes.Clone(good)
	badCount[len(badCount)-1] = 200

	noTree := []byte{0, 0, 0, 0, 0, 0, 0, 2, 0xff, 3}

	for _, test := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header size", good[:2]},
		{"short header", good[:4+hsize-1]},
		{"missing data size", good[:4+hsize]},
		{"short data size", good[:4+hsize+3]},
		{"short data", good[:len(good)-1]},
		{"bad leaf", badLeaf},
		{"bad count byte", badCount},
		{"data without tree", noTree},
	} {
		var out bytes.Buffer
		if _, err := Decompress(bytes.NewReader(test.data), &out); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: got %v, want ErrFormat", test.name, err)
		}
	}
}

func TestDecompressWriteError(t *testing.T) {
	var comp bytes.Buffer
	if _, err := Compress(strings.NewReader("abracadabra"), &comp); err != nil {
		t.Fatal(err)
	}
	_, err := Decompress(bytes.NewReader(comp.Bytes()), &failWriter{})
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Errorf("got %v, want an *IOError", err)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("hello")
	f.Add("")
	f.Add("a")
	f.Add("aaabcccc")
	f.Add("hello世界")
	f.Add("🚀rocket")
	f.Add("null\x00byte")
	f.Fuzz(func(t *testing.T, text string) {
		var comp bytes.Buffer
		_, err := Compress(strings.NewReader(text), &comp)
		if !utf8.ValidString(text) {
			if !errors.Is(err, ErrEncoding) {
				t.Fatalf("invalid UTF-8 %q: got %v, want ErrEncoding", text, err)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}
		var out bytes.Buffer
		if _, err := Decompress(&comp, &out); err != nil {
			t.Fatal(err)
		}
		if out.String() != text {
			t.Errorf("got %q, want %q", out.String(), text)
		}
	})
}

// Decompress never panics on arbitrary input.
func FuzzDecompress(f *testing.F) {
	var comp bytes.Buffer
	if _, err := Compress(strings.NewReader("abracadabra"), &comp); err != nil {
		f.Fatal(err)
	}
	f.Add(comp.Bytes())
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 1, 8})
	f.Fuzz(func(t *testing.T, data []byte) {
		var out bytes.Buffer
		Decompress(bytes.NewReader(data), &out)
	})
}

func mustTree(t *testing.T, text string) *Node {
	t.Helper()
	root, err := BuildTree(countString(t, text))
	if err != nil {
		t.Fatal(err)
	}
	return root
}
