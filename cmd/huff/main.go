// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

// Huff compresses a UTF-8 text file with a Huffman code, or decompresses
// a file it produced.
//
// Usage:
//
//	huff [-d] [-o out] [-stats] [-verify] [-v] file
//
// By default file is compressed into file_huff.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/jba/huff"
)

const suffix = "_huff"

var (
	flDecode  = flag.Bool("d", false, "decompress instead of compress")
	flOut     = flag.String("o", "", "output file (default file"+suffix+", or file without "+suffix+" plus .out with -d)")
	flStats   = flag.Bool("stats", false, "print the symbol table")
	flVerify  = flag.Bool("verify", false, "after compressing, decompress the output and compare it with the input")
	flVerbose = flag.Bool("v", false, "log debug output")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: huff [flags] file\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *flVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "huff: must pass a valid file path")
		flag.Usage()
		os.Exit(1)
	}
	in := flag.Arg(0)
	out := *flOut
	if out == "" {
		out = outputName(in, *flDecode)
	}

	var (
		st  *huff.Stats
		err error
	)
	if *flDecode {
		st, err = decompressFile(in, out)
	} else {
		st, err = compressFile(in, out)
	}
	if err == nil && *flVerify && !*flDecode {
		err = verify(in, out)
	}
	if err != nil {
		slog.Error("failed", "in", in, "err", err)
		os.Exit(1)
	}
	if *flStats {
		fmt.Println(renderStats(st))
	}
}

func outputName(in string, decode bool) string {
	if decode {
		return strings.TrimSuffix(in, suffix) + ".out"
	}
	return in + suffix
}

func compressFile(in, out string) (*huff.Stats, error) {
	f, err := os.Open(in)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", in)
	}
	defer f.Close()
	st, err := writeFile(out, func(w io.Writer) (*huff.Stats, error) {
		return huff.Compress(f, w)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("compressed", "in", in, "out", out,
		"input_bytes", st.InputBytes, "output_bytes", st.OutputBytes,
		"ratio", fmt.Sprintf("%.3f", st.Ratio()))
	slog.Debug("layout", "symbols", st.Symbols, "distinct", st.Distinct,
		"header_bytes", st.HeaderBytes, "payload_bytes", st.PayloadBytes)
	return st, nil
}

func decompressFile(in, out string) (*huff.Stats, error) {
	f, err := os.Open(in)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", in)
	}
	defer f.Close()
	st, err := writeFile(out, func(w io.Writer) (*huff.Stats, error) {
		return huff.Decompress(bufio.NewReader(f), w)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("decompressed", "in", in, "out", out,
		"input_bytes", st.InputBytes, "output_bytes", st.OutputBytes)
	return st, nil
}

// writeFile creates name, passes a buffered writer for it to write, and
// flushes and closes it. On failure the partial file is removed.
func writeFile(name string, write func(io.Writer) (*huff.Stats, error)) (st *huff.Stats, err error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", name)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", name)
		}
		if err != nil {
			os.Remove(name)
		}
	}()
	bw := bufio.NewWriter(f)
	if st, err = write(bw); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrapf(err, "writing %s", name)
	}
	return st, nil
}

// verify decompresses the compressed file and checks that its xxhash
// digest matches that of the original.
func verify(orig, compressed string) error {
	want, err := digestFile(orig, func(r io.Reader, w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
	if err != nil {
		return err
	}
	got, err := digestFile(compressed, func(r io.Reader, w io.Writer) error {
		_, err := huff.Decompress(r, w)
		return err
	})
	if err != nil {
		return err
	}
	if got != want {
		return errors.Errorf("verify: %s decompresses to digest %016x, want %016x", compressed, got, want)
	}
	slog.Info("verified", "out", compressed, "xxhash", fmt.Sprintf("%016x", got))
	return nil
}

// digestFile opens name and returns the xxhash digest of what fill writes.
func digestFile(name string, fill func(io.Reader, io.Writer) error) (uint64, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()
	d := xxhash.New()
	if err := fill(bufio.NewReader(f), d); err != nil {
		return 0, errors.Wrapf(err, "reading %s", name)
	}
	return d.Sum64(), nil
}
