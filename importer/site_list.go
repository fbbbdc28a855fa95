package importer

import (
	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	siteListColSite = iota
	siteListColHousingType
	siteListColSitePhone
	siteListColAddress
	siteListColCity
	siteListColManager
	siteListColManagerPhone
)

type SiteListExtractor struct{}

func (SiteListExtractor) FileType() record.FileType { return record.SiteListType }

func (e SiteListExtractor) Extract(g *grid.Grid) Extraction {
	return extractRows(e.FileType(), g, func(row grid.Row) record.Record {
		return record.SiteList{
			Site:               normalize.Text(row.Cell(siteListColSite)),
			HousingType:        normalize.Text(row.Cell(siteListColHousingType)),
			SitePhoneNumber:    phoneText(row.Cell(siteListColSitePhone)),
			Address:            normalize.Text(row.Cell(siteListColAddress)),
			City:               normalize.Text(row.Cell(siteListColCity)),
			ManagerOrSite:      normalize.Text(row.Cell(siteListColManager)),
			ManagerPhoneNumber: phoneText(row.Cell(siteListColManagerPhone)),
		}
	})
}

// phoneText keeps phone numbers that the workbook stored as numbers.
func phoneText(cell grid.Cell) string {
	if cell.Kind() == grid.KindNumber {
		return cell.String()
	}
	return normalize.Text(cell)
}
