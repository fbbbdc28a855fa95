package record

import (
	"fmt"
	"strconv"
	"strings"
)

// FileType selects the record shape of an upload. The numeric id is the
// canonical key everywhere: config rules, payloads, storage and the API.
type FileType int

const (
	FlowThroughType FileType = iota + 1
	LossOfServiceType
	RentSupplementType
	GoalsProgressType
	SafetyPlanType
	OverdoseSafetyPlanType
	IncidentType
	IndividualsType
	ShelterDiversionType
	SiteListType
	IntakeAggregateType
)

type fileTypeInfo struct {
	slug string
	name string
}

var fileTypes = map[FileType]fileTypeInfo{
	FlowThroughType:        {slug: "flow-through", name: "Flow Through"},
	LossOfServiceType:      {slug: "loss-of-service", name: "Loss of Service"},
	RentSupplementType:     {slug: "rent-supplement", name: "Rent Supplement"},
	GoalsProgressType:      {slug: "goals-progress", name: "Goals and Progress"},
	SafetyPlanType:         {slug: "safety-plan", name: "Safety Plan"},
	OverdoseSafetyPlanType: {slug: "overdose-safety-plan", name: "Overdose Safety Plan"},
	IncidentType:           {slug: "incident", name: "Incident Report"},
	IndividualsType:        {slug: "individuals", name: "Individuals"},
	ShelterDiversionType:   {slug: "shelter-diversion", name: "Shelter Diversion Follow-Up Log"},
	SiteListType:           {slug: "site-list", name: "Site List"},
	IntakeAggregateType:    {slug: "intake", name: "Intake"},
}

// FileTypes returns every known type ordered by id.
func FileTypes() []FileType {
	out := make([]FileType, 0, len(fileTypes))
	for ft := FlowThroughType; ft <= IntakeAggregateType; ft++ {
		out = append(out, ft)
	}
	return out
}

func (ft FileType) Valid() bool {
	_, ok := fileTypes[ft]
	return ok
}

func (ft FileType) Slug() string {
	return fileTypes[ft].slug
}

func (ft FileType) String() string {
	if info, ok := fileTypes[ft]; ok {
		return info.name
	}
	return fmt.Sprintf("FileType(%d)", int(ft))
}

// ParseFileType resolves a numeric id, slug or display name to its id.
func ParseFileType(value string) (FileType, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("file type is required")
	}
	if id, err := strconv.Atoi(trimmed); err == nil {
		ft := FileType(id)
		if !ft.Valid() {
			return 0, fmt.Errorf("unknown file type id %d", id)
		}
		return ft, nil
	}

	key := foldKey(trimmed)
	for ft, info := range fileTypes {
		if key == foldKey(info.slug) || key == foldKey(info.name) {
			return ft, nil
		}
	}
	return 0, fmt.Errorf("unknown file type %q", value)
}

func foldKey(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(trimmed)
}
