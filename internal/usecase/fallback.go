package usecase

import (
	"regexp"

	"github.com/aislemap/backend/internal/domain"
)

// aisleRule maps a keyword pattern to an aisle
type aisleRule struct {
	aisle   string
	pattern *regexp.Regexp
}

// fallbackRules are evaluated top to bottom and the first match wins.
// Specific phrases ("ice cream", "hot dogs", "baby carrots", "black pepper",
// "peanut butter", "dish soap", "apple juice") sit in rules checked before the
// generic term they contain.
var fallbackRules = []aisleRule{
	{domain.AisleFrozenFoods, regexp.MustCompile(`(?i)\bfrozen\b|\bice cream\b|\bpopsicles?\b|\bgelato\b|\btv dinners?\b`)},
	{domain.AisleMeatSeafood, regexp.MustCompile(`(?i)\b(hot|corn) dogs?\b`)},
	{domain.AisleProduce, regexp.MustCompile(`(?i)\bbaby (carrots?|spinach|greens|kale|arugula|potato(es)?|bok choy|bella mushrooms?)\b`)},
	{domain.AislePantry, regexp.MustCompile(`(?i)\b(black|white|ground|cracked) pepper\b|\bpeppercorns?\b|\bcayenne\b|\bpaprika\b`)},
	{domain.AisleBabyCare, regexp.MustCompile(`(?i)\bbaby\b|\bdiapers?\b|\binfant\b|\bformula\b|\bwipes\b|\bpacifiers?\b|\bsippy\b`)},
	{domain.AislePetSupplies, regexp.MustCompile(`(?i)\b(dog|cat|pet|puppy|kitten)s?\b|\bkibble\b|\blitter\b|\bbird ?seed\b`)},
	{domain.AisleHouseholdCleaning, regexp.MustCompile(`(?i)\bdetergent\b|\bbleach\b|\bcleaners?\b|\bpaper towels?\b|\btoilet paper\b|\btissues?\b|\btrash bags?\b|\bdish soap\b|\bsponges?\b|\bnapkins?\b|\baluminum foil\b|\bplastic wrap\b|\bdisinfectant\b|\bfabric softener\b`)},
	{domain.AisleHealthBeauty, regexp.MustCompile(`(?i)\bshampoo\b|\bshaving cream\b|\bconditioner\b|\btoothpaste\b|\btoothbrush(es)?\b|\bdeodorant\b|\blotion\b|\bsoap\b|\bvitamins?\b|\brazors?\b|\bfloss\b|\bsunscreen\b|\bmakeup\b|\bibuprofen\b|\baspirin\b|\bbandages?\b|\bmouthwash\b`)},
	{domain.AisleElectronics, regexp.MustCompile(`(?i)\bbatter(y|ies)\b|\bchargers?\b|\bcables?\b|\bheadphones?\b|\bearbuds\b|\busb\b|\blight ?bulbs?\b|\bspeakers?\b|\bphone\b`)},
	{domain.AisleToysGames, regexp.MustCompile(`(?i)\btoys?\b|\blego\b|\bpuzzles?\b|\bboard games?\b|\bdolls?\b|\bcrayons?\b|\bplaying cards\b`)},
	{domain.AisleClothingApparel, regexp.MustCompile(`(?i)\bshirts?\b|\bt-shirts?\b|\bsocks?\b|\bpants\b|\bjackets?\b|\bshoes?\b|\bunderwear\b|\bhats?\b|\bgloves?\b|\bjeans\b`)},
	{domain.AisleCondimentsSauces, regexp.MustCompile(`(?i)\bketchup\b|\bmustard\b|\bmayo(nnaise)?\b|\bsauce\b|\bsalsa\b|\bdressing\b|\bvinegar\b|\brelish\b|\bsyrup\b|\bhoney\b|\bjam\b|\bjelly\b|\bpeanut butter\b`)},
	{domain.AisleBeverages, regexp.MustCompile(`(?i)\b(soda|cola|coke|pepsi|sprite|juice|water|coffee|tea|beer|wine|lemonade|kombucha|seltzer)\b|\benergy drinks?\b`)},
	{domain.AisleDairyEggs, regexp.MustCompile(`(?i)\b(milk|buttermilk|cheese|yogurt|yoghurt|butter|cream|creamer|eggs?|half and half)\b`)},
	{domain.AisleMeatSeafood, regexp.MustCompile(`(?i)\b(chicken|beef|pork|turkey|ham|bacon|sausages?|steaks?|salmon|tuna|shrimp|fish|lamb|crab|lobster|ground meat)\b`)},
	{domain.AisleProduce, regexp.MustCompile(`(?i)\b(apples?|pineapples?|bananas?|oranges?|lettuce|tomato(es)?|potato(es)?|onions?|carrots?|broccoli|spinach|berries|strawberr(y|ies)|blueberr(y|ies)|grapes?|lemons?|limes?|avocados?|cucumbers?|peppers?|celery|garlic|mushrooms?|fruits?|vegetables?|kale|zucchini|peach(es)?|pears?|melons?|cilantro|herbs?)\b`)},
	{domain.AisleBakery, regexp.MustCompile(`(?i)\b(bread|bagels?|muffins?|croissants?|baguettes?|donuts?|doughnuts?|cakes?|cupcakes?|pies?|tortillas?|rolls?|buns?|pastr(y|ies))\b`)},
	{domain.AisleSnacks, regexp.MustCompile(`(?i)\b(chips|crackers|cookies|pretzels?|popcorn|candy|chocolate|granola bars?|nuts|trail mix|gum)\b`)},
	{domain.AislePantry, regexp.MustCompile(`(?i)\b(rice|pasta|flour|sugar|cereal|oats|oatmeal|beans|soup|spaghetti|noodles?|salt|spices?|oil|canned|baking|broth|lentils?)\b`)},
}

// ClassifyItem returns the aisle the keyword rules assign to name, or DefaultAisle.
func ClassifyItem(name string) string {
	for _, rule := range fallbackRules {
		if rule.pattern.MatchString(name) {
			return rule.aisle
		}
	}
	return domain.DefaultAisle
}

// enhancedFallback categorizes every item with the keyword rules. It makes no network calls.
func enhancedFallback(items []domain.ParsedItem) []domain.CategorizedItem {
	results := make([]domain.CategorizedItem, len(items))
	for i, item := range items {
		results[i] = domain.CategorizedItem{
			Product: item.CleanName,
			Aisle:   ClassifyItem(item.CleanName),
			Notes:   QuantityNote(item.Quantity, "fallback"),
		}
	}
	return results
}

// simpleFallback puts every item in DefaultAisle without looking at it
func simpleFallback(items []domain.ParsedItem) []domain.CategorizedItem {
	results := make([]domain.CategorizedItem, len(items))
	for i, item := range items {
		results[i] = domain.CategorizedItem{
			Product: item.CleanName,
			Aisle:   domain.DefaultAisle,
			Notes:   QuantityNote(item.Quantity, "quick categorization"),
		}
	}
	return results
}
