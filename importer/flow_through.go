package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	flowThroughColIndividual = iota
	flowThroughColProgramOrSite
	flowThroughColStartDate
	flowThroughColExitDate
	flowThroughColExitReason
)

type FlowThroughExtractor struct{}

func (FlowThroughExtractor) FileType() record.FileType { return record.FlowThroughType }

func (e FlowThroughExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.FlowThrough{
			Individual:    normalize.Text(row.Cell(flowThroughColIndividual)),
			ProgramOrSite: normalize.Text(row.Cell(flowThroughColProgramOrSite)),
			StartDate:     normalize.Date(row.Cell(flowThroughColStartDate)),
			ExitDate:      normalize.Date(row.Cell(flowThroughColExitDate)),
			ExitReason:    normalize.Text(row.Cell(flowThroughColExitReason)),
		}
	})
}
