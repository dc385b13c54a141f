package cache

import "github.com/aislemap/backend/internal/domain"

// CommonItems is the startup table of frequently bought items.
//
// "milk" is listed under Beverages here while the keyword fallback files it
// under Dairy & Eggs. Both answers are kept as-is until the product owners pick one.
var CommonItems = map[string]string{
	// Produce
	"apple":      domain.AisleProduce,
	"apples":     domain.AisleProduce,
	"banana":     domain.AisleProduce,
	"bananas":    domain.AisleProduce,
	"orange":     domain.AisleProduce,
	"lettuce":    domain.AisleProduce,
	"tomato":     domain.AisleProduce,
	"tomatoes":   domain.AisleProduce,
	"potato":     domain.AisleProduce,
	"potatoes":   domain.AisleProduce,
	"onion":      domain.AisleProduce,
	"onions":     domain.AisleProduce,
	"carrots":    domain.AisleProduce,
	"avocado":    domain.AisleProduce,
	"grapes":     domain.AisleProduce,
	"strawberry": domain.AisleProduce,

	// Dairy & Eggs
	"eggs":   domain.AisleDairyEggs,
	"cheese": domain.AisleDairyEggs,
	"butter": domain.AisleDairyEggs,
	"yogurt": domain.AisleDairyEggs,

	// Meat & Seafood
	"chicken":        domain.AisleMeatSeafood,
	"ground beef":    domain.AisleMeatSeafood,
	"bacon":          domain.AisleMeatSeafood,
	"salmon":         domain.AisleMeatSeafood,
	"chicken breast": domain.AisleMeatSeafood,

	// Bakery
	"bread":   domain.AisleBakery,
	"bagels":  domain.AisleBakery,
	"muffins": domain.AisleBakery,

	// Pantry
	"rice":   domain.AislePantry,
	"pasta":  domain.AislePantry,
	"flour":  domain.AislePantry,
	"sugar":  domain.AislePantry,
	"cereal": domain.AislePantry,

	// Beverages
	"milk":      domain.AisleBeverages,
	"water":     domain.AisleBeverages,
	"coffee":    domain.AisleBeverages,
	"coca-cola": domain.AisleBeverages,
	"coke":      domain.AisleBeverages,
	"pepsi":     domain.AisleBeverages,
	"juice":     domain.AisleBeverages,

	// Snacks
	"chips":    domain.AisleSnacks,
	"cookies":  domain.AisleSnacks,
	"crackers": domain.AisleSnacks,

	// Condiments & Sauces
	"ketchup":    domain.AisleCondimentsSauces,
	"mustard":    domain.AisleCondimentsSauces,
	"mayonnaise": domain.AisleCondimentsSauces,

	// Household & Cleaning
	"paper towels":      domain.AisleHouseholdCleaning,
	"toilet paper":      domain.AisleHouseholdCleaning,
	"dish soap":         domain.AisleHouseholdCleaning,
	"laundry detergent": domain.AisleHouseholdCleaning,

	// Health & Beauty
	"shampoo":    domain.AisleHealthBeauty,
	"toothpaste": domain.AisleHealthBeauty,

	// Pet Supplies
	"dog food": domain.AislePetSupplies,
	"cat food": domain.AislePetSupplies,

	// Baby Care
	"diapers": domain.AisleBabyCare,
	"wipes":   domain.AisleBabyCare,
}
