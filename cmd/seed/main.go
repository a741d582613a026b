package main

import (
	"fmt"
	"log"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/config"
	"github.com/celianh/marketplace-backend/internal/db"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Article{},
		&model.Conversation{},
		&model.Message{},
		&model.FraudLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := conn.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("database already seeded; skipping")
		return nil
	}

	hashed, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:          "admin@example.com",
		FullName:       "Admin User",
		HashedPassword: hashed,
		Role:           model.RoleAdmin,
		IsActive:       true,
	}
	if err := conn.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	categories := []model.Category{
		{Name: "Electronics", Description: "Smartphones, laptops, tablets, cameras, and other electronic devices"},
		{Name: "Clothing & Accessories", Description: "Apparel, shoes, bags, watches, and fashion accessories"},
		{Name: "Home & Garden", Description: "Furniture, decor, kitchen appliances, and gardening tools"},
		{Name: "Sports & Outdoors", Description: "Sports equipment, outdoor gear, camping, and fitness accessories"},
		{Name: "Books & Media", Description: "Books, vinyl records, DVDs, video games, and digital media"},
	}
	if err := conn.Create(&categories).Error; err != nil {
		return fmt.Errorf("create categories: %w", err)
	}

	articles := []model.Article{
		{
			Title:        "Laptop Pro",
			Description:  "High performance laptop with 16GB RAM and 512GB SSD",
			Price:        1200.0,
			ShippingCost: 20.0,
			IsApproved:   true,
			CategoryID:   &categories[0].ID,
			SellerID:     admin.ID,
		},
		{
			Title:        "Wireless Mouse",
			Description:  "Ergonomic wireless mouse with precision tracking",
			Price:        30.0,
			ShippingCost: 5.0,
			IsApproved:   true,
			CategoryID:   &categories[0].ID,
			SellerID:     admin.ID,
		},
		{
			Title:        "Vintage Denim Jacket",
			Description:  "Classic 90s denim jacket in great condition",
			Price:        45.0,
			ShippingCost: 7.5,
			IsApproved:   true,
			CategoryID:   &categories[1].ID,
			SellerID:     admin.ID,
		},
	}
	if err := conn.Create(&articles).Error; err != nil {
		return fmt.Errorf("create articles: %w", err)
	}

	log.Printf("seeded %d categories and %d articles (admin: %s)", len(categories), len(articles), admin.Email)
	return nil
}
