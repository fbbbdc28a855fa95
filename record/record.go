// Package record defines the typed record shapes produced by the importer,
// one per FileType. JSON field names are the storage and API contract.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Common field names shared by several record shapes.
const (
	FieldIndividual    = "individual"
	FieldProgramOrSite = "programOrSite"
)

// Field is one named value of a record, in column order.
type Field struct {
	Name  string
	Value string
}

// Record is implemented by every record shape.
type Record interface {
	FileType() FileType
	Fields() []Field
}

// Value returns the named field of r, or "" when r has no such field.
func Value(r Record, name string) string {
	for _, field := range r.Fields() {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// HasField reports whether records of type ft carry the named field.
func HasField(ft FileType, name string) bool {
	for _, column := range Columns(ft) {
		if column == name {
			return true
		}
	}
	return false
}

// Columns returns the field names of ft in column order.
func Columns(ft FileType) []string {
	empty, ok := Zero(ft)
	if !ok {
		return nil
	}
	fields := empty.Fields()
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}

// Zero returns the zero record of ft.
func Zero(ft FileType) (Record, bool) {
	switch ft {
	case FlowThroughType:
		return FlowThrough{}, true
	case LossOfServiceType:
		return LossOfService{}, true
	case RentSupplementType:
		return RentSupplement{}, true
	case GoalsProgressType:
		return GoalsProgress{}, true
	case SafetyPlanType:
		return SafetyPlan{}, true
	case OverdoseSafetyPlanType:
		return OverdoseSafetyPlan{}, true
	case IncidentType:
		return Incident{}, true
	case IndividualsType:
		return Individuals{}, true
	case ShelterDiversionType:
		return ShelterDiversion{}, true
	case SiteListType:
		return SiteList{}, true
	case IntakeAggregateType:
		return IntakeRow{}, true
	default:
		return nil, false
	}
}

// Decode unmarshals a JSON array of records of type ft.
func Decode(ft FileType, data []byte) ([]Record, error) {
	switch ft {
	case FlowThroughType:
		return decodeAs[FlowThrough](data)
	case LossOfServiceType:
		return decodeAs[LossOfService](data)
	case RentSupplementType:
		return decodeAs[RentSupplement](data)
	case GoalsProgressType:
		return decodeAs[GoalsProgress](data)
	case SafetyPlanType:
		return decodeAs[SafetyPlan](data)
	case OverdoseSafetyPlanType:
		return decodeAs[OverdoseSafetyPlan](data)
	case IncidentType:
		return decodeAs[Incident](data)
	case IndividualsType:
		return decodeAs[Individuals](data)
	case ShelterDiversionType:
		return decodeAs[ShelterDiversion](data)
	case SiteListType:
		return decodeAs[SiteList](data)
	case IntakeAggregateType:
		return decodeAs[IntakeRow](data)
	default:
		return nil, fmt.Errorf("decode records: unknown file type %d", int(ft))
	}
}

// DecodeOne unmarshals a single JSON record of type ft.
func DecodeOne(ft FileType, data []byte) (Record, error) {
	records, err := Decode(ft, append(append([]byte("["), data...), ']'))
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("decode record: expected one value, got %d", len(records))
	}
	return records[0], nil
}

func decodeAs[T Record](data []byte) ([]Record, error) {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %T records: %w", *new(T), err)
	}
	out := make([]Record, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out, nil
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
