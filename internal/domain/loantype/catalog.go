package loantype

// DefaultCatalog is the reference product set loaded by the seed command.
func DefaultCatalog() []LoanType {
	return []LoanType{
		{
			Slug: "pret-personnel", Name: "Prêt personnel", Category: CategoryParticular,
			MinAmount: 500, MaxAmount: 75000, MinDurationMonths: 6, MaxDurationMonths: 84,
			MinRate: 2.9, MaxRate: 8.9,
			Features: []string{"Sans justificatif d'utilisation", "Remboursement anticipé gratuit"},
			Active:   true,
		},
		{
			Slug: "pret-auto", Name: "Prêt auto", Category: CategoryParticular,
			MinAmount: 3000, MaxAmount: 75000, MinDurationMonths: 12, MaxDurationMonths: 84,
			MinRate: 2.5, MaxRate: 6.9,
			Features: []string{"Véhicule neuf ou d'occasion"},
			Active:   true,
		},
		{
			Slug: "pret-immobilier", Name: "Prêt immobilier", Category: CategoryParticular,
			MinAmount: 50000, MaxAmount: 1000000, MinDurationMonths: 60, MaxDurationMonths: 300,
			MinRate: 3.2, MaxRate: 4.8,
			Features: []string{"Taux fixe", "Assurance emprunteur déléguable"},
			Active:   true,
		},
		{
			Slug: "credit-tresorerie", Name: "Crédit de trésorerie", Category: CategoryProfessional,
			MinAmount: 5000, MaxAmount: 250000, MinDurationMonths: 3, MaxDurationMonths: 36,
			MinRate: 3.9, MaxRate: 9.5,
			Features: []string{"Déblocage rapide"},
			Active:   true,
		},
		{
			Slug: "pret-equipement", Name: "Prêt équipement professionnel", Category: CategoryProfessional,
			MinAmount: 10000, MaxAmount: 500000, MinDurationMonths: 12, MaxDurationMonths: 84,
			MinRate: 3.5, MaxRate: 7.5,
			Features: []string{"Financement jusqu'à 100% HT"},
			Active:   true,
		},
	}
}
