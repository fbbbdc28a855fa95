package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	rentSupplementColIndividual = iota
	rentSupplementColProgramOrSite
	rentSupplementColNotes
)

type RentSupplementExtractor struct{}

func (RentSupplementExtractor) FileType() record.FileType { return record.RentSupplementType }

func (e RentSupplementExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.RentSupplement{
			Individual:    normalize.Text(row.Cell(rentSupplementColIndividual)),
			ProgramOrSite: normalize.Text(row.Cell(rentSupplementColProgramOrSite)),
			Notes:         normalize.Text(row.Cell(rentSupplementColNotes)),
		}
	})
}
