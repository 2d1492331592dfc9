// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package main

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jba/huff"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type statRow struct {
	sym  huff.Symbol
	freq uint64
	code string
}

// renderStats formats the symbol table of a run: one row per symbol with
// its frequency (when known) and code, most frequent first.
func renderStats(st *huff.Stats) string {
	var rows []statRow
	if st.Code != nil {
		for _, s := range st.Code.Symbols() {
			r := statRow{sym: s}
			if st.Table != nil {
				r.freq = st.Table.Freq(s)
			}
			code, n, _ := st.Code.Lookup(s)
			r.code = fmt.Sprintf("%0*b", n, code)
			rows = append(rows, r)
		}
	}
	slices.SortFunc(rows, func(a, b statRow) int {
		if c := cmp.Compare(b.freq, a.freq); c != 0 {
			return c
		}
		return cmp.Compare(a.sym, b.sym)
	})

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d symbols, %d distinct", st.Symbols, st.Distinct)))
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render(fmt.Sprintf("header %d bytes, payload %d bytes, %d -> %d bytes (%.3f)",
		st.HeaderBytes, st.PayloadBytes, st.InputBytes, st.OutputBytes, st.Ratio())))
	sb.WriteByte('\n')
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %10s  %s", "symbol", "count", "code")))
	for _, r := range rows {
		freq := "-"
		if st.Table != nil {
			freq = fmt.Sprint(r.freq)
		}
		fmt.Fprintf(&sb, "\n%-10s %10s  %s", fmt.Sprintf("%q", r.sym), freq, r.code)
	}
	return panelStyle.Render(sb.String())
}
