package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	lossOfServiceColIndividual = iota
	lossOfServiceColProgramOrSite
	lossOfServiceColStart
	lossOfServiceColEnd
	lossOfServiceColReviewForTPCS
	lossOfServiceColReason
	lossOfServiceColCriticalIncident
	lossOfServiceColStaffReporting
	lossOfServiceColRationaleOver48Hours
	lossOfServiceColManagerApproved
)

type LossOfServiceExtractor struct{}

func (LossOfServiceExtractor) FileType() record.FileType { return record.LossOfServiceType }

// Extract keeps the time of day on the start and end columns.
func (e LossOfServiceExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.LossOfService{
			Individual:                   normalize.Text(row.Cell(lossOfServiceColIndividual)),
			ProgramOrSite:                normalize.Text(row.Cell(lossOfServiceColProgramOrSite)),
			StartDateTimeOfLOS:           normalize.DateTime(row.Cell(lossOfServiceColStart)),
			EndDateTimeOfLOS:             normalize.DateTime(row.Cell(lossOfServiceColEnd)),
			ReviewForTPCSLOS:             normalize.Boolean(row.Cell(lossOfServiceColReviewForTPCS)),
			ReasonAndRationale:           normalize.Text(row.Cell(lossOfServiceColReason)),
			WasRelatedToCriticalIncident: normalize.Boolean(row.Cell(lossOfServiceColCriticalIncident)),
			StaffReporting:               normalize.Text(row.Cell(lossOfServiceColStaffReporting)),
			RationaleForLOSMore48Hours:   normalize.Text(row.Cell(lossOfServiceColRationaleOver48Hours)),
			ManagerApproved:              normalize.Boolean(row.Cell(lossOfServiceColManagerApproved)),
		}
	})
}
