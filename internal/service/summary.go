package service

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is the user-visible outcome of one run.
type Summary struct {
	PairsDiscovered int
	PairsProcessed  int
	PairsFailed     int
	Warnings        int

	EntriesGenerated int
	EntriesSkipped   int
	EntriesFailed    int
	EntriesAbandoned int

	// Halted is set when resource exhaustion stopped new scheduling.
	Halted bool
}

// Render formats the summary as a table.
func (s *Summary) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Count"})

	rows := []struct {
		name  string
		value int
	}{
		{"Pairs discovered", s.PairsDiscovered},
		{"Pairs processed", s.PairsProcessed},
		{"Pairs failed", s.PairsFailed},
		{"Discovery warnings", s.Warnings},
		{"Clips generated", s.EntriesGenerated},
		{"Entries skipped by filter", s.EntriesSkipped},
		{"Entries failed", s.EntriesFailed},
	}
	for _, row := range rows {
		tw.AppendRow(table.Row{row.name, strconv.Itoa(row.value)})
	}
	if s.EntriesAbandoned > 0 {
		tw.AppendRow(table.Row{"Entries abandoned", strconv.Itoa(s.EntriesAbandoned)})
	}
	if s.Halted {
		tw.AppendFooter(table.Row{"Run halted", "resource exhaustion"})
	}
	return tw.Render()
}
