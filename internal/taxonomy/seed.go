package taxonomy

// Taxonomia padrão criada quando as coleções estão vazias.
var DefaultPollutionTypes = []CreateInput{
	{Name: "Bad Smell / Odor", Description: "Unpleasant odors from various sources including waste, industrial processes, or sewage", IsActive: true},
	{Name: "Smoke", Description: "Visible smoke from burning materials, vehicles, or industrial emissions", IsActive: true},
	{Name: "Noise Pollution", Description: "Excessive noise from construction, traffic, machinery, or other sources", IsActive: true},
	{Name: "Water Pollution", Description: "Contamination of water bodies including rivers, lakes, groundwater, or drainage systems", IsActive: true},
	{Name: "Air Pollution", Description: "Contamination of air quality from industrial emissions, vehicle exhaust, or other sources", IsActive: true},
	{Name: "Waste / Litter", Description: "Improper disposal of solid waste, illegal dumping, or excessive littering", IsActive: true},
	{Name: "Chemical Pollution", Description: "Release of hazardous chemicals into the environment", IsActive: true},
	{Name: "Other", Description: "Other types of pollution not covered by the above categories", IsActive: true},
}

var DefaultSectors = []CreateInput{
	{Name: "Sector 1", Description: "Residential and commercial area in the northern part of the city", IsActive: true},
	{Name: "Sector 2", Description: "Mixed residential and light industrial area", IsActive: true},
	{Name: "Sector 3", Description: "Central business district and commercial area", IsActive: true},
	{Name: "Sector 4", Description: "Industrial and manufacturing zone", IsActive: true},
	{Name: "Sector 5", Description: "Residential area in the southern part of the city", IsActive: true},
}
