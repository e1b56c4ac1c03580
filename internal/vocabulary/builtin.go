// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package vocabulary

// builtinBrands keeps its repeats. Matching scans in this order and the first
// strictly better score wins, so reordering changes results.
var builtinBrands = []string{
	"nike", "adidas", "puma", "reebok", "new balance", "asics", "vans", "converse", "skechers",
	"jordan", "yeezy", "fendi", "gucci", "prada", "versace", "burberry", "chanel", "dior", "armani",
	"calvin klein", "tommy hilfiger", "ralph lauren", "levis", "wrangler", "diesel", "gap", "old navy", "h&m", "zara",
	"forever 21", "mango", "uniqlo", "topshop", "asos", "boohoo", "missguided", "pretty little thing", "nasty gal", "revolve",
	"nordstrom", "macys", "bloomingdale's", "saks fifth avenue", "neiman marcus", "harrods", "selfridges", "net-a-porter", "mytheresa", "farfetch",
	"michael kors", "coach", "kate spade", "tory burch", "marc jacobs", "dooney & bourke", "fossil", "guess", "steve madden", "aldo",
	"nine west", "sam edelman", "clarks", "timberland", "ugg", "hunter", "sorel", "birkenstock", "teva", "chaco",
	"ray-ban", "oakley", "maui jim", "persol", "versace", "gucci", "prada", "fendi", "armani", "tom ford",
	"rolex", "omega", "tag heuer", "cartier", "tissot", "citizen", "seiko", "casio", "swatch", "michael kors",
	"fossil", "kate spade", "marc jacobs", "tory burch", "coach", "dooney & bourke", "guess", "steve madden", "aldo", "nine west",
	"sam edelman", "clarks", "timberland", "ugg", "hunter", "sorel", "birkenstock", "teva", "chaco", "patagonia",
	"north face", "columbia", "arcteryx", "marmot", "ll bean", "eddie bauer", "rei", "outdoor voices", "lululemon", "athleta",
	"spanx", "free people", "anthropologie", "urban outfitters", "madewell", "j crew", "banana republic", "ann taylor", "loft",
	"express", "bebe", "guess", "forever 21", "hollister", "american eagle", "abercrombie & fitch", "pacsun", "zumiez",
	"hot topic", "torrid", "lane bryant", "asos", "boohoo", "missguided", "pretty little thing", "nasty gal", "revolve",
	"nordstrom", "macys", "bloomingdale's", "saks fifth avenue", "neiman marcus", "harrods", "selfridges", "net-a-porter", "mytheresa", "farfetch",
	"balenciaga", "saint laurent", "celine", "givenchy", "valentino", "alexander mcqueen", "balmain", "off-white", "vetements",
	"supreme", "stussy", "carhartt wip", "obey", "thrasher", "palace", "bape", "kith", "ronnie fieg", "aime leon dore",
	"acne studios", "comme des garcons", "issey miyake", "yohji yamamoto", "rick owens", "dries van noten", "maison margiela", "jil sander", "the row", "bottega veneta",
}

var builtinColors = []string{
	"black", "white", "red", "blue", "green", "yellow", "orange", "purple", "pink",
	"brown", "grey", "gray", "silver", "gold", "navy", "maroon", "olive", "beige",
	"teal", "magenta", "cyan", "lime", "indigo", "violet", "turquoise", "khaki",
	"cream", "burgundy", "lavender", "peach", "tan", "charcoal", "forest green",
	"sky blue", "royal blue", "light blue", "dark blue", "light green", "dark green",
	"rose gold", "coral", "fuchsia",
}

// "fall" and "autumn" are both listed.
var builtinSeasons = []string{"spring", "summer", "fall", "autumn", "winter"}

// Builtin returns a vocabulary holding only the built-in brand, color and
// season lists.
func Builtin() *Vocabulary {
	return New(nil, nil, nil, nil)
}
