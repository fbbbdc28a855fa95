package record

type FlowThrough struct {
	Individual    string `json:"individual"`
	ProgramOrSite string `json:"programOrSite"`
	StartDate     string `json:"startDate"`
	ExitDate      string `json:"exitDate"`
	ExitReason    string `json:"exitReason"`
}

func (FlowThrough) FileType() FileType { return FlowThroughType }

func (r FlowThrough) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"startDate", r.StartDate},
		{"exitDate", r.ExitDate},
		{"exitReason", r.ExitReason},
	}
}

type LossOfService struct {
	Individual                   string `json:"individual"`
	ProgramOrSite                string `json:"programOrSite"`
	StartDateTimeOfLOS           string `json:"startDateTimeOfLOS"`
	EndDateTimeOfLOS             string `json:"endDateTimeOfLOS"`
	ReviewForTPCSLOS             string `json:"reviewForTPCSLOS"`
	ReasonAndRationale           string `json:"reasonAndRationale"`
	WasRelatedToCriticalIncident string `json:"wasRelatedToCriticalIncident"`
	StaffReporting               string `json:"staffReporting"`
	RationaleForLOSMore48Hours   string `json:"rationaleForLOSMore48Hours"`
	ManagerApproved              string `json:"managerApproved"`
}

func (LossOfService) FileType() FileType { return LossOfServiceType }

func (r LossOfService) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"startDateTimeOfLOS", r.StartDateTimeOfLOS},
		{"endDateTimeOfLOS", r.EndDateTimeOfLOS},
		{"reviewForTPCSLOS", r.ReviewForTPCSLOS},
		{"reasonAndRationale", r.ReasonAndRationale},
		{"wasRelatedToCriticalIncident", r.WasRelatedToCriticalIncident},
		{"staffReporting", r.StaffReporting},
		{"rationaleForLOSMore48Hours", r.RationaleForLOSMore48Hours},
		{"managerApproved", r.ManagerApproved},
	}
}

type RentSupplement struct {
	Individual    string `json:"individual"`
	ProgramOrSite string `json:"programOrSite"`
	Notes         string `json:"notes"`
}

func (RentSupplement) FileType() FileType { return RentSupplementType }

func (r RentSupplement) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"notes", r.Notes},
	}
}

// GoalsProgress is assembled from several consecutive rows; every field
// after ProgramResidence is optional.
type GoalsProgress struct {
	Individual       string `json:"individual"`
	ProgramResidence string `json:"programResidence"`
	GoalTitle        string `json:"goalTitle,omitempty"`
	GoalType         string `json:"goalType,omitempty"`
	PersonalOutcome  string `json:"personalOutcome,omitempty"`
	GoalDescription  string `json:"goalDescription,omitempty"`
	StartDate        string `json:"startDate,omitempty"`
	CompletionDate   string `json:"completionDate,omitempty"`
	DiscontinuedDate string `json:"discontinuedDate,omitempty"`
	GoalProgress     string `json:"goalProgress,omitempty"`
}

func (GoalsProgress) FileType() FileType { return GoalsProgressType }

func (r GoalsProgress) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{"programResidence", r.ProgramResidence},
		{"goalTitle", r.GoalTitle},
		{"goalType", r.GoalType},
		{"personalOutcome", r.PersonalOutcome},
		{"goalDescription", r.GoalDescription},
		{"startDate", r.StartDate},
		{"completionDate", r.CompletionDate},
		{"discontinuedDate", r.DiscontinuedDate},
		{"goalProgress", r.GoalProgress},
	}
}

type SafetyPlan struct {
	Individual             string `json:"individual"`
	ProgramOrSite          string `json:"programOrSite"`
	SelfSoothingStrategies string `json:"selfSoothingStrategies"`
	ReasonsForLiving       string `json:"reasonsForLiving"`
	SupportConnections     string `json:"supportConnections"`
	SafeSpaces             string `json:"safeSpaces"`
}

func (SafetyPlan) FileType() FileType { return SafetyPlanType }

func (r SafetyPlan) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"selfSoothingStrategies", r.SelfSoothingStrategies},
		{"reasonsForLiving", r.ReasonsForLiving},
		{"supportConnections", r.SupportConnections},
		{"safeSpaces", r.SafeSpaces},
	}
}

type OverdoseSafetyPlan struct {
	Individual           string `json:"individual"`
	ProgramOrSite        string `json:"programOrSite"`
	StaffMember          string `json:"staffMember"`
	TodaysDate           string `json:"todaysDate"`
	RiskFactors          string `json:"riskFactors"`
	RiskReductionActions string `json:"riskReductionActions"`
	WellnessHabits       string `json:"wellnessHabits"`
	SupportPeople        string `json:"supportPeople"`
	CrisisContacts       string `json:"crisisContacts"`
}

func (OverdoseSafetyPlan) FileType() FileType { return OverdoseSafetyPlanType }

func (r OverdoseSafetyPlan) Fields() []Field {
	return []Field{
		{FieldIndividual, r.Individual},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"staffMember", r.StaffMember},
		{"todaysDate", r.TodaysDate},
		{"riskFactors", r.RiskFactors},
		{"riskReductionActions", r.RiskReductionActions},
		{"wellnessHabits", r.WellnessHabits},
		{"supportPeople", r.SupportPeople},
		{"crisisContacts", r.CrisisContacts},
	}
}

type Incident struct {
	ClientsInvolved       string `json:"clientsInvolved"`
	ProgramOrSite         string `json:"programOrSite"`
	DateAndTimeOfIncident string `json:"dateAndTimeOfIncident"`
	DegreeOfInjury        string `json:"degreeOfInjury"`
	TypeOfInjury          string `json:"typeOfInjury"`
	TypeOfSeriousIncident string `json:"typeOfSeriousIncident"`
}

func (Incident) FileType() FileType { return IncidentType }

func (r Incident) Fields() []Field {
	return []Field{
		{"clientsInvolved", r.ClientsInvolved},
		{FieldProgramOrSite, r.ProgramOrSite},
		{"dateAndTimeOfIncident", r.DateAndTimeOfIncident},
		{"degreeOfInjury", r.DegreeOfInjury},
		{"typeOfInjury", r.TypeOfInjury},
		{"typeOfSeriousIncident", r.TypeOfSeriousIncident},
	}
}

type Individuals struct {
	ClientPhoto           string `json:"clientPhoto,omitempty"`
	Person                string `json:"person"`
	DateOfBirth           string `json:"dateOfBirth"`
	Site                  string `json:"site"`
	Programs              string `json:"programs"`
	DateEnteredIntoSystem string `json:"dateEnteredIntoSystem"`
}

func (Individuals) FileType() FileType { return IndividualsType }

func (r Individuals) Fields() []Field {
	return []Field{
		{"clientPhoto", r.ClientPhoto},
		{"person", r.Person},
		{"dateOfBirth", r.DateOfBirth},
		{"site", r.Site},
		{"programs", r.Programs},
		{"dateEnteredIntoSystem", r.DateEnteredIntoSystem},
	}
}

type ShelterDiversion struct {
	Community               string  `json:"community"`
	InitialFollowUpDate     string  `json:"initialFollowUpDate"`
	CurrentGoals            string  `json:"currentGoals"`
	CurrentGoalsDescription string  `json:"currentGoalsDescription"`
	FollowUpLog             string  `json:"followUpLog"`
	ReferralLog             string  `json:"referralLog"`
	SuccessfulDiversion     string  `json:"successfulDiversion"`
	DivertedTo              string  `json:"divertedTo"`
	DiversionMethod         string  `json:"diversionMethod"`
	DiversionCost           float64 `json:"diversionCost"`
	EvictionPrevention      string  `json:"evictionPrevention"`
}

func (ShelterDiversion) FileType() FileType { return ShelterDiversionType }

func (r ShelterDiversion) Fields() []Field {
	return []Field{
		{"community", r.Community},
		{"initialFollowUpDate", r.InitialFollowUpDate},
		{"currentGoals", r.CurrentGoals},
		{"currentGoalsDescription", r.CurrentGoalsDescription},
		{"followUpLog", r.FollowUpLog},
		{"referralLog", r.ReferralLog},
		{"successfulDiversion", r.SuccessfulDiversion},
		{"divertedTo", r.DivertedTo},
		{"diversionMethod", r.DiversionMethod},
		{"diversionCost", formatNumber(r.DiversionCost)},
		{"evictionPrevention", r.EvictionPrevention},
	}
}

type SiteList struct {
	Site               string `json:"site"`
	HousingType        string `json:"housingType"`
	SitePhoneNumber    string `json:"sitePhoneNumber"`
	Address            string `json:"address"`
	City               string `json:"city"`
	ManagerOrSite      string `json:"managerOrSite"`
	ManagerPhoneNumber string `json:"managerPhoneNumber"`
}

func (SiteList) FileType() FileType { return SiteListType }

func (r SiteList) Fields() []Field {
	return []Field{
		{"site", r.Site},
		{"housingType", r.HousingType},
		{"sitePhoneNumber", r.SitePhoneNumber},
		{"address", r.Address},
		{"city", r.City},
		{"managerOrSite", r.ManagerOrSite},
		{"managerPhoneNumber", r.ManagerPhoneNumber},
	}
}

// IntakeRow is one line of an intake breakdown table.
type IntakeRow struct {
	Table      string  `json:"table"`
	Label      string  `json:"label"`
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
}

func (IntakeRow) FileType() FileType { return IntakeAggregateType }

func (r IntakeRow) Fields() []Field {
	return []Field{
		{"table", r.Table},
		{"label", r.Label},
		{"count", formatNumber(r.Count)},
		{"percentage", formatNumber(r.Percentage)},
	}
}
