package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/dorpsplein/dorpsplein-api/config"
	"github.com/dorpsplein/dorpsplein-api/pkg/helpers"
)

type demoUser struct {
	email       string
	username    string
	firstName   string
	lastName    string
	city        string
	postalCode  string
	sellerRoles string // Postgres array literal
	buyerType   string
	kvk         string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "wachtwoord123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []demoUser{
		{"kok@dorpsplein.test", "kok.van.hiernaast", "Janneke", "de Vries", "Utrecht", "3511AB", "{chef}", "", "12345678"},
		{"tuinder@dorpsplein.test", "moestuin-mark", "Mark", "Jansen", "Amersfoort", "3811CD", "{garden}", "", "23456789"},
		{"maker@dorpsplein.test", "atelier_sophie", "Sophie", "Bakker", "Amsterdam", "1012EF", "{designer}", "", "34567890"},
		{"allround@dorpsplein.test", "alles.van.anna", "Anna", "Visser", "Zwolle", "8011GH", "{chef,garden,designer}", "", "45678901"},
		{"koper@dorpsplein.test", "proever-piet", "Piet", "Smit", "Utrecht", "3512JK", "{}", "private", ""},
	}

	ids := map[string]string{}
	for _, u := range users {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, username, password_hash, first_name, last_name, city, postal_code, country, seller_roles, buyer_type, kvk_number, subscription, tax_acked, is_verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'Nederland', $8, $9, $10, CASE WHEN $10 <> '' THEN 'free' ELSE '' END, $10 <> '', TRUE)
			ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
			RETURNING id
		`, u.email, u.username, hash, u.firstName, u.lastName, u.city, u.postalCode, u.sellerRoles, u.buyerType, u.kvk).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		ids[u.username] = id
		fmt.Printf("seeded user: %s (%s) password=%s\n", u.username, u.email, password)
	}

	type demoListing struct {
		owner      string
		category   string
		title      string
		desc       string
		status     string
		priceCents int
		photos     string
		recipe     sql.NullString
		garden     sql.NullString
	}
	listings := []demoListing{
		{
			owner: "kok.van.hiernaast", category: "CHEFF",
			title: "Stamppot boerenkool met rookworst", desc: "Klassieker uit eigen keuken, vers bereid.",
			status: "PUBLISHED", priceCents: 750,
			photos: `[{"url":"https://storage.example/seed/stamppot.jpg","index":0,"isMain":true}]`,
			recipe: sql.NullString{Valid: true, String: `{"ingredients":["boerenkool","aardappelen","rookworst"],"instructions":["Kook de aardappelen","Stamp alles door elkaar"],"prepTime":45,"servings":4,"difficulty":"easy"}`},
		},
		{
			owner: "kok.van.hiernaast", category: "CHEFF",
			title: "Appeltaart van oma", desc: "Recept ter inspiratie, niet te koop.",
			status: "PUBLISHED", priceCents: 0,
			photos: `[{"url":"https://storage.example/seed/appeltaart.jpg","index":0,"isMain":true}]`,
			recipe: sql.NullString{Valid: true, String: `{"ingredients":["appels","bloem","boter"],"instructions":["Maak het deeg","Bak 60 minuten"],"prepTime":90,"servings":8,"difficulty":"medium"}`},
		},
		{
			owner: "moestuin-mark", category: "GROWN",
			title: "Verse snijbiet uit de moestuin", desc: "Wekelijks geoogst, per bos.",
			status: "PUBLISHED", priceCents: 300,
			photos: `[{"url":"https://storage.example/seed/snijbiet.jpg","index":0,"isMain":true}]`,
			garden: sql.NullString{Valid: true, String: `{"plantType":"snijbiet","sunlight":"full","water":"medium","location":"allotment"}`},
		},
		{
			owner: "atelier_sophie", category: "DESIGNER",
			title: "Handgemaakte keramische vaas", desc: "Uniek stuk, gedraaid en geglazuurd.",
			status: "PUBLISHED", priceCents: 4500,
			photos: `[{"url":"https://storage.example/seed/vaas.jpg","index":0,"isMain":true}]`,
		},
		{
			owner: "alles.van.anna", category: "CHEFF",
			title: "Proefbaksel brownies", desc: "Nog niet af, eerst testen.",
			status: "PRIVATE", priceCents: 0,
			photos: `[{"url":"https://storage.example/seed/brownies.jpg","index":0,"isMain":true}]`,
		},
	}

	for _, l := range listings {
		var id string
		err := db.QueryRow(`
			INSERT INTO listings (user_id, category, title, description, status, photos, price_cents, stock, max_stock, delivery_mode, recipe, garden)
			VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 > 0 THEN 5 ELSE 0 END, CASE WHEN $7 > 0 THEN 10 ELSE 0 END, CASE WHEN $7 > 0 THEN 'pickup' ELSE '' END, $8, $9)
			RETURNING id
		`, ids[l.owner], l.category, l.title, l.desc, l.status, l.photos, l.priceCents, l.recipe, l.garden).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed listing %q: %v", l.title, err)
		}
		fmt.Printf("seeded listing: %s (%s, %s)\n", l.title, l.category, l.status)
	}

	fmt.Println("seed complete")
}
