package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	safetyPlanColIndividual = iota
	safetyPlanColProgramOrSite
	safetyPlanColSelfSoothing
	safetyPlanColReasonsForLiving
	safetyPlanColSupportConnections
	safetyPlanColSafeSpaces
)

const (
	overdoseColIndividual = iota
	overdoseColProgramOrSite
	overdoseColStaffMember
	overdoseColTodaysDate
	overdoseColRiskFactors
	overdoseColRiskReduction
	overdoseColWellnessHabits
	overdoseColSupportPeople
	overdoseColCrisisContacts
)

type SafetyPlanExtractor struct{}

func (SafetyPlanExtractor) FileType() record.FileType { return record.SafetyPlanType }

func (e SafetyPlanExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.SafetyPlan{
			Individual:             normalize.Text(row.Cell(safetyPlanColIndividual)),
			ProgramOrSite:          normalize.Text(row.Cell(safetyPlanColProgramOrSite)),
			SelfSoothingStrategies: normalize.Text(row.Cell(safetyPlanColSelfSoothing)),
			ReasonsForLiving:       normalize.Text(row.Cell(safetyPlanColReasonsForLiving)),
			SupportConnections:     normalize.Text(row.Cell(safetyPlanColSupportConnections)),
			SafeSpaces:             normalize.Text(row.Cell(safetyPlanColSafeSpaces)),
		}
	})
}

type OverdoseSafetyPlanExtractor struct{}

func (OverdoseSafetyPlanExtractor) FileType() record.FileType {
	return record.OverdoseSafetyPlanType
}

func (e OverdoseSafetyPlanExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.OverdoseSafetyPlan{
			Individual:           normalize.Text(row.Cell(overdoseColIndividual)),
			ProgramOrSite:        normalize.Text(row.Cell(overdoseColProgramOrSite)),
			StaffMember:          normalize.Text(row.Cell(overdoseColStaffMember)),
			TodaysDate:           normalize.Date(row.Cell(overdoseColTodaysDate)),
			RiskFactors:          normalize.Text(row.Cell(overdoseColRiskFactors)),
			RiskReductionActions: normalize.Text(row.Cell(overdoseColRiskReduction)),
			WellnessHabits:       normalize.Text(row.Cell(overdoseColWellnessHabits)),
			SupportPeople:        normalize.Text(row.Cell(overdoseColSupportPeople)),
			CrisisContacts:       normalize.Text(row.Cell(overdoseColCrisisContacts)),
		}
	})
}
