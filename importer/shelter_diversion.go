package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	diversionColCommunity = iota
	diversionColInitialFollowUp
	diversionColCurrentGoals
	diversionColGoalsDescription
	diversionColFollowUpLog
	diversionColReferralLog
	diversionColSuccessful
	diversionColDivertedTo
	diversionColMethod
	diversionColCost
	diversionColEvictionPrevention
)

type ShelterDiversionExtractor struct{}

func (ShelterDiversionExtractor) FileType() record.FileType { return record.ShelterDiversionType }

// Extract reads the cost column as a number; unparseable costs become 0.
func (e ShelterDiversionExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		cost, _ := normalize.Number(row.Cell(diversionColCost))
		return record.ShelterDiversion{
			Community:               normalize.Text(row.Cell(diversionColCommunity)),
			InitialFollowUpDate:     normalize.Date(row.Cell(diversionColInitialFollowUp)),
			CurrentGoals:            normalize.Text(row.Cell(diversionColCurrentGoals)),
			CurrentGoalsDescription: normalize.Text(row.Cell(diversionColGoalsDescription)),
			FollowUpLog:             normalize.Text(row.Cell(diversionColFollowUpLog)),
			ReferralLog:             normalize.Text(row.Cell(diversionColReferralLog)),
			SuccessfulDiversion:     normalize.Boolean(row.Cell(diversionColSuccessful)),
			DivertedTo:              normalize.Text(row.Cell(diversionColDivertedTo)),
			DiversionMethod:         normalize.Text(row.Cell(diversionColMethod)),
			DiversionCost:           cost,
			EvictionPrevention:      normalize.Boolean(row.Cell(diversionColEvictionPrevention)),
		}
	})
}
