package catalog

import (
	"context"

	storeerrors "github.com/sweetbloom/storefront/internal/errors"
)

// staticProducts is the built-in catalog served when the remote store is unavailable or empty.
var staticProducts = []Product{
	{
		ID:          "1",
		Title:       "Bouquet de Roses Rouges",
		Price:       299,
		Description: "Un magnifique bouquet de 12 roses rouges fraîches, symbole d'amour et de passion. Parfait pour exprimer vos sentiments.",
		Category:    CategoryFlowers,
		Image:       "https://images.pexels.com/photos/931177/pexels-photo-931177.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "2",
		Title:       "Bouquet Tulipes Colorées",
		Price:       199,
		Description: "Un ensemble vibrant de tulipes multicolores pour égayer votre journée et apporter de la joie.",
		Category:    CategoryFlowers,
		Image:       "https://images.pexels.com/photos/1179026/pexels-photo-1179026.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "3",
		Title:       "Bouquet de Tournesols",
		Price:       179,
		Description: "Des tournesols lumineux qui apportent le soleil dans votre maison. Idéal pour une décoration chaleureuse.",
		Category:    CategoryFlowers,
		Image:       "https://images.pexels.com/photos/1624076/pexels-photo-1624076.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "4",
		Title:       "Orchidée Phalaenopsis",
		Price:       350,
		Description: "Une élégante orchidée blanche dans un pot décoratif. Symbole de raffinement et de luxe.",
		Category:    CategoryFlowers,
		Image:       "https://images.pexels.com/photos/4751978/pexels-photo-4751978.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "5",
		Title:       "Bouquet Mixte Printanier",
		Price:       249,
		Description: "Un assortiment de fleurs de saison aux couleurs vives. Parfait pour toutes les occasions.",
		Category:    CategoryFlowers,
		Image:       "https://images.pexels.com/photos/931166/pexels-photo-931166.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "6",
		Title:       "Coffret Chocolats Assortis",
		Price:       189,
		Description: "Une sélection de 24 chocolats fins artisanaux aux saveurs variées : noir, lait, praliné.",
		Category:    CategoryChocolates,
		Image:       "https://images.pexels.com/photos/4110101/pexels-photo-4110101.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "7",
		Title:       "Truffes au Chocolat Noir",
		Price:       149,
		Description: "Des truffes onctueuses enrobées de cacao pur 70%. Un délice pour les amateurs de chocolat intense.",
		Category:    CategoryChocolates,
		Image:       "https://images.pexels.com/photos/4109998/pexels-photo-4109998.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "8",
		Title:       "Boîte Pralinés Luxe",
		Price:       229,
		Description: "Pralinés au chocolat au lait avec éclats de noisettes croquantes. Coffret cadeau élégant.",
		Category:    CategoryChocolates,
		Image:       "https://images.pexels.com/photos/65882/chocolate-dark-coffee-confiserie-65882.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "9",
		Title:       "Tablette Chocolat Artisanal",
		Price:       89,
		Description: "Tablette de chocolat noir 85% origine Madagascar. Notes fruitées et intenses.",
		Category:    CategoryChocolates,
		Image:       "https://images.pexels.com/photos/918327/pexels-photo-918327.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "10",
		Title:       "Gâteau Fraisier Deluxe",
		Price:       280,
		Description: "Un délicieux gâteau aux fraises fraîches et crème mousseline légère. Pour 8-10 personnes.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/1702373/pexels-photo-1702373.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "11",
		Title:       "Tarte Citron Meringuée",
		Price:       199,
		Description: "Une tarte acidulée au citron avec une meringue dorée et croustillante. Un classique revisité.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/14705134/pexels-photo-14705134.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "12",
		Title:       "Gâteau Chocolat Fondant",
		Price:       320,
		Description: "Un gâteau au chocolat fondant personnalisable avec votre message. Cœur coulant irrésistible.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/291528/pexels-photo-291528.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "13",
		Title:       "Macarons Assortis (12 pcs)",
		Price:       159,
		Description: "Une boîte de 12 macarons aux parfums variés : vanille, framboise, pistache, chocolat.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/3776947/pexels-photo-3776947.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "14",
		Title:       "Wedding Cake 3 Étages",
		Price:       890,
		Description: "Un gâteau de mariage élégant sur 3 étages, entièrement personnalisable selon vos envies.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/1729797/pexels-photo-1729797.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
	{
		ID:          "15",
		Title:       "Cheesecake New York",
		Price:       220,
		Description: "L'authentique cheesecake crémeux avec son coulis de fruits rouges. Recette traditionnelle.",
		Category:    CategoryCakes,
		Image:       "https://images.pexels.com/photos/4109999/pexels-photo-4109999.jpeg?auto=compress&cs=tinysrgb&w=600",
	},
}

// StaticSource serves the built-in catalog. It never fails.
type StaticSource struct {
	products []Product
}

func NewStaticSource() *StaticSource {
	return &StaticSource{products: staticProducts}
}

func (s *StaticSource) List(_ context.Context, category string) ([]Product, error) {
	result := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || p.Category == category {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *StaticSource) Get(_ context.Context, id string) (*Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, storeerrors.ErrProductNotFound
}
