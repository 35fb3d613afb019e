package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/jo-hoe/perfumecatalog/internal/core"
	"github.com/shopspring/decimal"
)

// Creator is the part of the core service the seeder needs.
type Creator interface {
	CreatePerfume(ctx context.Context, raw map[string]string, upload *core.ImageUpload) (*database.Perfume, error)
}

var samples = []map[string]string{
	{
		"name":         "Chanel No. 5",
		"brand":        "Chanel",
		"description":  "The quintessence of femininity, a timeless fragrance with floral aldehyde composition. This legendary perfume features notes of ylang-ylang, rose, and jasmine, creating an iconic scent that has captivated women for generations.",
		"price":        "150.00",
		"category":     "Floral",
		"sub_category": "Rose",
	},
	{
		"name":         "Tom Ford Black Orchid",
		"brand":        "Tom Ford",
		"description":  "A luxurious and sensual fragrance that captures the rich, dark, and dramatic essence of the black orchid flower. With notes of black truffle, bergamot, and dark chocolate, this perfume is both mysterious and alluring.",
		"price":        "180.00",
		"category":     "Oriental",
		"sub_category": "Exotic",
	},
	{
		"name":         "Dior Sauvage",
		"brand":        "Dior",
		"description":  "A radically fresh composition, dictated by a name that has the ring of a manifesto. Sauvage gets an invigorating rush from the vibrant freshness of Calabrian bergamot and the juicy sweetness of Sichuan pepper.",
		"price":        "120.00",
		"category":     "Fresh",
		"sub_category": "Citrus",
	},
	{
		"name":         "Yves Saint Laurent Black Opium",
		"brand":        "Yves Saint Laurent",
		"description":  "The female addiction. A seductive scent of adrenaline and caffeine overdose. Black coffee accord, white flowers, and vanilla create an intoxicating blend that is both energizing and addictive.",
		"price":        "140.00",
		"category":     "Gourmand",
		"sub_category": "Coffee",
	},
	{
		"name":         "Creed Aventus",
		"brand":        "Creed",
		"description":  "A sophisticated and contemporary scent, perfect for the modern gentleman. With top notes of pineapple, blackcurrant, apple, and bergamot, this fragrance exudes strength, power, and success.",
		"price":        "350.00",
		"category":     "Fresh",
		"sub_category": "Fruity",
	},
	{
		"name":         "Jo Malone English Pear & Freesia",
		"brand":        "Jo Malone",
		"description":  "The essence of autumn. Ripe, golden pears are enhanced by a bouquet of white freesias, heightened with hints of patchouli. Fresh and feminine, this scent captures the beauty of an English garden.",
		"price":        "100.00",
		"category":     "Fresh",
		"sub_category": "Fruity",
	},
	{
		"name":         "Hermès Terre d'Hermès",
		"brand":        "Hermès",
		"description":  "A novel that expresses the alchemical power of the elements. Earth, but not earthy. Woody and mineral, the fragrance is built around the idea of earth and its elements.",
		"price":        "160.00",
		"category":     "Woody",
		"sub_category": "Cedar",
	},
	{
		"name":         "Gucci Bloom",
		"brand":        "Gucci",
		"description":  "A rich white floral fragrance for women. The scent is created to unfold like its name, capturing the spirit of the contemporary, diverse, and authentic women who wear it.",
		"price":        "110.00",
		"category":     "Floral",
		"sub_category": "Jasmine",
	},
}

var (
	brands = []string{
		"Chanel", "Dior", "Tom Ford", "Yves Saint Laurent", "Giorgio Armani",
		"Versace", "Prada", "Gucci", "Hermès", "Creed", "Jo Malone",
		"Marc Jacobs", "Calvin Klein", "Dolce & Gabbana", "Burberry",
	}
	nameStems = []string{
		"Eau de Parfum", "Eau de Toilette", "Cologne", "Elixir", "Essence",
		"Secret", "Mystery", "Dreams", "Noir", "Blanche", "Rouge",
		"Gold", "Platinum", "Crystal", "Diamond", "Royal", "Imperial",
	}
	nameWords = []string{
		"velvet", "dusk", "garden", "ember", "tide", "silk", "horizon", "bloom",
		"amber", "frost", "orchard", "lagoon", "meadow", "spice", "twilight",
	}
	sentences = []string{
		"Opens with a bright burst of citrus and pink pepper.",
		"The heart reveals a bouquet of white flowers and soft spices.",
		"A warm base of sandalwood, musk and amber lingers for hours.",
		"Crafted for evenings that call for quiet confidence.",
		"Notes of fresh cut grass meet a hint of sea salt.",
		"Vanilla and tonka bean wrap the composition in sweetness.",
		"A modern take on a classic chypre structure.",
		"Smoky incense drifts over a trail of dark berries.",
		"Light enough for daytime yet memorable after dark.",
		"Iris and violet leaf lend a powdery elegance.",
	}
)

// Samples returns the curated catalog entries as raw form values.
func Samples() []map[string]string {
	copied := make([]map[string]string, len(samples))
	for i, sample := range samples {
		entry := make(map[string]string, len(sample))
		for key, value := range sample {
			entry[key] = value
		}
		copied[i] = entry
	}
	return copied
}

// RandomPerfume builds a plausible catalog entry from the suggestion table.
func RandomPerfume(r *rand.Rand) map[string]string {
	suggestions := core.CategorySuggestions()
	suggestion := suggestions[r.IntN(len(suggestions))]

	description := make([]string, 3+r.IntN(4))
	for i := range description {
		description[i] = sentences[r.IntN(len(sentences))]
	}

	// 25.00 to 500.00 in cents
	cents := 2500 + r.Int64N(47501)

	return map[string]string{
		"name":         nameStems[r.IntN(len(nameStems))] + " " + nameWords[r.IntN(len(nameWords))],
		"brand":        brands[r.IntN(len(brands))],
		"description":  strings.Join(description, " "),
		"price":        decimal.New(cents, -2).StringFixed(2),
		"category":     suggestion.Category,
		"sub_category": suggestion.SubCategories[r.IntN(len(suggestion.SubCategories))],
	}
}

// Run inserts the samples followed by count random perfumes and returns how many were created.
func Run(ctx context.Context, creator Creator, count int, r *rand.Rand) (int, error) {
	entries := Samples()
	for i := 0; i < count; i++ {
		entries = append(entries, RandomPerfume(r))
	}

	for i, entry := range entries {
		if _, err := creator.CreatePerfume(ctx, entry, nil); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", entry["name"], err)
		}
	}
	slog.Info("catalog seeded", "perfumes", len(entries))
	return len(entries), nil
}
