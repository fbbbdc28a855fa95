package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	incidentColClientsInvolved = iota
	incidentColProgramOrSite
	incidentColDateTime
	incidentColDegreeOfInjury
	incidentColTypeOfInjury
	incidentColTypeOfSeriousIncident
)

type IncidentExtractor struct{}

func (IncidentExtractor) FileType() record.FileType { return record.IncidentType }

func (e IncidentExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.Incident{
			ClientsInvolved:       normalize.Text(row.Cell(incidentColClientsInvolved)),
			ProgramOrSite:         normalize.Text(row.Cell(incidentColProgramOrSite)),
			DateAndTimeOfIncident: normalize.DateTime(row.Cell(incidentColDateTime)),
			DegreeOfInjury:        normalize.Text(row.Cell(incidentColDegreeOfInjury)),
			TypeOfInjury:          normalize.Text(row.Cell(incidentColTypeOfInjury)),
			TypeOfSeriousIncident: normalize.Text(row.Cell(incidentColTypeOfSeriousIncident)),
		}
	})
}
