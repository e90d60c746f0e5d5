package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small starter catalog into an empty database.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	products := repositories.NewMongoProductStore(db)

	existing, err := products.Search(ctx, "", 1, 1)
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		return nil
	}

	catalog := []models.Product{
		{
			Name:         "Wireless Bluetooth Headphones",
			Brand:        "AudioMax",
			Category:     "Electronics",
			Description:  "Over-ear headphones with active noise cancelling and 30 hour battery life.",
			Image:        "/images/headphones.jpg",
			Price:        89.99,
			CountInStock: 12,
		},
		{
			Name:         "Mechanical Keyboard",
			Brand:        "KeyForge",
			Category:     "Electronics",
			Description:  "Tenkeyless mechanical keyboard with hot-swappable switches.",
			Image:        "/images/keyboard.jpg",
			Price:        129.00,
			CountInStock: 7,
		},
		{
			Name:         "Stainless Steel Water Bottle",
			Brand:        "Hydra",
			Category:     "Outdoors",
			Description:  "Vacuum insulated 750ml bottle, keeps drinks cold for 24 hours.",
			Image:        "/images/bottle.jpg",
			Price:        24.50,
			CountInStock: 40,
		},
		{
			Name:         "Canvas Backpack",
			Brand:        "Trailhead",
			Category:     "Outdoors",
			Description:  "Water resistant 25L backpack with padded laptop sleeve.",
			Image:        "/images/backpack.jpg",
			Price:        59.95,
			CountInStock: 15,
		},
		{
			Name:         "Espresso Grinder",
			Brand:        "BrewCraft",
			Category:     "Kitchen",
			Description:  "Conical burr grinder with 40 grind settings.",
			Image:        "/images/grinder.jpg",
			Price:        149.99,
			CountInStock: 0,
		},
	}

	for i := range catalog {
		if err := products.Create(ctx, &catalog[i]); err != nil {
			return err
		}
	}
	return nil
}
