package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	individualsColClientPhoto = iota
	individualsColPerson
	individualsColDateOfBirth
	individualsColSite
	individualsColPrograms
	individualsColDateEntered
)

type IndividualsExtractor struct{}

func (IndividualsExtractor) FileType() record.FileType { return record.IndividualsType }

func (e IndividualsExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.Individuals{
			ClientPhoto:           normalize.Text(row.Cell(individualsColClientPhoto)),
			Person:                normalize.Text(row.Cell(individualsColPerson)),
			DateOfBirth:           normalize.Date(row.Cell(individualsColDateOfBirth)),
			Site:                  normalize.Text(row.Cell(individualsColSite)),
			Programs:              normalize.Text(row.Cell(individualsColPrograms)),
			DateEnteredIntoSystem: normalize.Date(row.Cell(individualsColDateEntered)),
		}
	})
}
