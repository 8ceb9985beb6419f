package services

// Collections identifies the three remote collections the relay works with.
type Collections struct {
	Clients string
	Demands string
	TimeLog string
}

// Schema names the properties read and written on each collection.
type Schema struct {
	ClientName string

	DemandName   string
	DemandClient string

	EntryTask   string
	EntryDemand string
	EntryHours  string
	EntryDate   string
}

// DefaultSchema matches the property names of the workspace the timer app
// was built against.
func DefaultSchema() Schema {
	return Schema{
		ClientName:   "Nome",
		DemandName:   "Nome",
		DemandClient: "Cliente",
		EntryTask:    "Tarefa",
		EntryDemand:  "Demanda",
		EntryHours:   "Horas",
		EntryDate:    "Data",
	}
}

// WithDefaults fills blank property names from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.ClientName, d.ClientName)
	fill(&s.DemandName, d.DemandName)
	fill(&s.DemandClient, d.DemandClient)
	fill(&s.EntryTask, d.EntryTask)
	fill(&s.EntryDemand, d.EntryDemand)
	fill(&s.EntryHours, d.EntryHours)
	fill(&s.EntryDate, d.EntryDate)
	return s
}
