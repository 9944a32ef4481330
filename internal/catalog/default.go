package catalog

// Trade categories used by the default catalog.
const (
	TradeGestion     = "gestion"
	TradeExcavation  = "excavation"
	TradeFondation   = "fondation"
	TradeCharpente   = "charpente"
	TradeToiture     = "toiture"
	TradeMenuiserie  = "menuiserie"
	TradePlomberie   = "plomberie"
	TradeElectricite = "electricite"
	TradeVentilation = "ventilation"
	TradeIsolation   = "isolation"
	TradeGypse       = "gypse"
	TradePeinture    = "peinture"
	TradeEbenisterie = "ebenisterie"
	TradePlancher    = "plancher"
	TradeComptoirs   = "comptoirs"
	TradeRevetement  = "revetement"
	TradePaysagement = "paysagement"
	TradeInspection  = "inspection"
)

// Default returns the built-in self-build catalog: four preparatory phases
// (65 business days in total) followed by the construction sequence.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = MustNew([]Phase{
	{ID: "planification", Name: "Planification et plans", Trade: TradeGestion, DurationDays: 10, Preparatory: true},
	{ID: "permis-construire", Name: "Permis de construire", Trade: TradeGestion, DurationDays: 30, Preparatory: true},
	{ID: "financement", Name: "Financement hypothécaire", Trade: TradeGestion, DurationDays: 15, Preparatory: true},
	{ID: "soumissions", Name: "Soumissions et contrats", Trade: TradeGestion, DurationDays: 10, Preparatory: true},

	{ID: "preparation-terrain", Name: "Préparation du terrain", Trade: TradeExcavation, DurationDays: 3, ContactLeadDays: 14},
	{ID: "excavation-fondation", Name: "Excavation et fondation", Trade: TradeFondation, DurationDays: 10, SupplierLeadDays: 14, ContactLeadDays: 21},
	{
		ID: "structure-charpente", Name: "Structure et charpente", Trade: TradeCharpente, DurationDays: 15,
		SupplierLeadDays: 21, FabricationLeadDays: 30, ContactLeadDays: 30,
		MinDelay: &MinDelay{AfterPhaseID: "excavation-fondation", Days: 21},
	},
	{ID: "toiture", Name: "Toiture", Trade: TradeToiture, DurationDays: 8, SupplierLeadDays: 14, ContactLeadDays: 21},
	{
		ID: "fenetres-portes", Name: "Fenêtres et portes extérieures", Trade: TradeMenuiserie, DurationDays: 3,
		FabricationLeadDays: 42,
		Measurement:         &Measurement{AfterPhaseID: "structure-charpente", Notes: "Mesurer les ouvertures brutes"},
	},
	{ID: "plomberie-brute", Name: "Plomberie brute", Trade: TradePlomberie, DurationDays: 5, ContactLeadDays: 21},
	{ID: "electricite-brute", Name: "Électricité brute", Trade: TradeElectricite, DurationDays: 5, ContactLeadDays: 21},
	{ID: "ventilation", Name: "Chauffage et ventilation", Trade: TradeVentilation, DurationDays: 4, SupplierLeadDays: 10},
	{ID: "isolation", Name: "Isolation et pare-vapeur", Trade: TradeIsolation, DurationDays: 4, SupplierLeadDays: 7},
	{ID: "gypse", Name: "Gypse, tirage de joints", Trade: TradeGypse, DurationDays: 10, SupplierLeadDays: 7, ContactLeadDays: 14},
	{ID: "peinture", Name: "Peinture", Trade: TradePeinture, DurationDays: 6},
	{
		ID: "armoires-cuisine", Name: "Armoires de cuisine", Trade: TradeEbenisterie, DurationDays: 4,
		FabricationLeadDays: 35,
		Measurement:         &Measurement{AfterPhaseID: "gypse", Notes: "Prise de mesures de la cuisine"},
	},
	{ID: "revetement-sol", Name: "Revêtement de sol", Trade: TradePlancher, DurationDays: 5, SupplierLeadDays: 10},
	{
		ID: "comptoirs", Name: "Comptoirs", Trade: TradeComptoirs, DurationDays: 2,
		FabricationLeadDays: 14,
		Measurement:         &Measurement{AfterPhaseID: "armoires-cuisine", Notes: "Gabarit des comptoirs"},
	},
	{ID: "finition-plomberie", Name: "Finition plomberie", Trade: TradePlomberie, DurationDays: 2},
	{ID: "finition-electricite", Name: "Finition électricité", Trade: TradeElectricite, DurationDays: 2},
	{ID: "revetement-exterieur", Name: "Revêtement extérieur", Trade: TradeRevetement, DurationDays: 8, SupplierLeadDays: 21},
	{ID: "amenagement-exterieur", Name: "Aménagement extérieur", Trade: TradePaysagement, DurationDays: 5},
	{ID: "inspection-finale", Name: "Inspection finale", Trade: TradeInspection, DurationDays: 1, ContactLeadDays: 10},
})
