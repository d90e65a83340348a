package main

import (
	"os"

	"github.com/maison-next/internal/config"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin(os.Getenv("MN_DEFAULT_ADMIN_USERNAME"), os.Getenv("MN_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 添加系列
	categories := []models.Category{
		{
			Slug:        "handbags",
			Name:        "Handbags",
			Description: "Hand-finished leather bags from the atelier.",
			SortOrder:   10,
		},
		{
			Slug:        "watches",
			Name:        "Watches",
			Description: "Mechanical timepieces in precious metals.",
			SortOrder:   20,
		},
		{
			Slug:        "jewellery",
			Name:        "Jewellery",
			Description: "High jewellery in gold and platinum.",
			SortOrder:   30,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取系列ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"handbags", "watches", "jewellery"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商品
	products := []models.Product{
		{
			Slug:        "riviera-tote",
			Name:        "Riviera Tote",
			Description: "Grained calfskin tote with hand-stitched handles and suede lining.",
			Color:       "Noir",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(245000)),
			Currency:    "INR",
			CategoryID:  categoryIDs["handbags"],
			Images: models.StringArray([]string{
				"/uploads/products/riviera-tote-noir.jpg",
			}),
			Tags:     models.StringArray([]string{"Leather", "Tote", "Atelier"}),
			Stock:    6,
			IsActive: true,
			Variants: []models.ProductVariant{
				{Name: "Noir", Value: "#1a1a1a", SortOrder: 10},
				{Name: "Cognac", Value: "#8b4a2f", SortOrder: 20},
			},
		},
		{
			Slug:        "heritage-chronograph",
			Name:        "Heritage Chronograph",
			Description: "38mm rose gold chronograph on an alligator strap.",
			Color:       "Rose Gold",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1280000)),
			Currency:    "INR",
			CategoryID:  categoryIDs["watches"],
			Images: models.StringArray([]string{
				"/uploads/products/heritage-chronograph.jpg",
			}),
			Tags:     models.StringArray([]string{"Watch", "Chronograph", "Rose Gold"}),
			Stock:    3,
			IsActive: true,
		},
		{
			Slug:        "lumiere-pendant",
			Name:        "Lumière Pendant",
			Description: "Brilliant-cut diamond pendant set in 18k white gold.",
			Color:       "White Gold",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(520000)),
			Currency:    "INR",
			CategoryID:  categoryIDs["jewellery"],
			Images: models.StringArray([]string{
				"/uploads/products/lumiere-pendant.jpg",
			}),
			Tags:     models.StringArray([]string{"Jewellery", "Diamond", "Pendant"}),
			Stock:    4,
			IsActive: true,
			Variants: []models.ProductVariant{
				{Name: "White Gold", Value: "#e8e8e8", SortOrder: 10},
				{Name: "Yellow Gold", Value: "#d4af37", SortOrder: 20},
			},
		},
	}

	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category missing", product.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 首页 Banner
	banners := []models.Banner{
		{
			Name:      "home-hero-riviera",
			Position:  "home",
			Title:     "The Riviera Collection",
			Subtitle:  "Hand-finished leather, made to order.",
			Image:     "/uploads/banners/riviera-hero.jpg",
			LinkType:  "category",
			LinkValue: "handbags",
			IsActive:  true,
			SortOrder: 10,
		},
	}
	for _, banner := range banners {
		var existing models.Banner
		if err := models.DB.Where("name = ?", banner.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&banner).Error; err != nil {
				stdLog.Printf("Failed to create banner %s: %v", banner.Name, err)
			} else {
				stdLog.Printf("Created banner: %s", banner.Name)
			}
		} else {
			stdLog.Printf("Banner already exists: %s", banner.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
