package domain

import "strings"

// Store aisles. The order matches how aisles are presented to the model and
// to users.
const (
	AisleProduce            = "Produce"
	AisleDairyEggs          = "Dairy & Eggs"
	AisleMeatSeafood        = "Meat & Seafood"
	AisleBakery             = "Bakery"
	AislePantry             = "Pantry"
	AisleFrozenFoods        = "Frozen Foods"
	AisleBeverages          = "Beverages"
	AisleSnacks             = "Snacks"
	AisleCondimentsSauces   = "Condiments & Sauces"
	AisleHouseholdCleaning  = "Household & Cleaning"
	AisleHealthBeauty       = "Health & Beauty"
	AislePetSupplies        = "Pet Supplies"
	AisleBabyCare           = "Baby Care"
	AisleElectronics        = "Electronics"
	AisleToysGames          = "Toys & Games"
	AisleClothingApparel    = "Clothing & Apparel"
	AisleGeneralMerchandise = "General Merchandise"
)

// DefaultAisle receives every item nothing else claims.
const DefaultAisle = AisleGeneralMerchandise

// Aisles is the closed aisle taxonomy.
var Aisles = []string{
	AisleProduce,
	AisleDairyEggs,
	AisleMeatSeafood,
	AisleBakery,
	AislePantry,
	AisleFrozenFoods,
	AisleBeverages,
	AisleSnacks,
	AisleCondimentsSauces,
	AisleHouseholdCleaning,
	AisleHealthBeauty,
	AislePetSupplies,
	AisleBabyCare,
	AisleElectronics,
	AisleToysGames,
	AisleClothingApparel,
	AisleGeneralMerchandise,
}

var aisleIndex = func() map[string]string {
	idx := make(map[string]string, len(Aisles))
	for _, a := range Aisles {
		idx[strings.ToLower(a)] = a
	}
	return idx
}()

// CanonicalAisle returns the taxonomy spelling of name, matching
// case-insensitively and ignoring surrounding whitespace.
func CanonicalAisle(name string) (string, bool) {
	a, ok := aisleIndex[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// IsValidAisle reports whether name is part of the taxonomy.
func IsValidAisle(name string) bool {
	_, ok := CanonicalAisle(name)
	return ok
}
