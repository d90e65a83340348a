package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductService(repository.NewProductRepository(db)), db
}

func baseProductInput(slug string) ProductInput {
	return ProductInput{
		CategoryID:  1,
		Slug:        slug,
		Name:        "Silk Scarf",
		Description: "Hand-rolled edges",
		Color:       "#1a1a1a",
		PriceAmount: decimal.RequireFromString("1499.00"),
		Currency:    "inr",
		Stock:       12,
	}
}

func TestProductCreateAndGet(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	input := baseProductInput("silk-scarf")
	input.Variants = []VariantInput{
		{Name: "Noir", Value: "#1a1a1a"},
		{Name: "Ivoire", Value: "#f5f1e8"},
		{Name: "  ", Value: "dropped"},
	}
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Currency != "INR" {
		t.Fatalf("currency want INR, got %s", product.Currency)
	}
	if got := product.PriceAmount.String(); got != "1499.00" {
		t.Fatalf("price want 1499.00, got %s", got)
	}
	if len(product.Variants) != 2 {
		t.Fatalf("variants want 2, got %d", len(product.Variants))
	}
	if !product.IsActive {
		t.Fatalf("product should default to active")
	}

	found, err := svc.GetPublicBySlug("silk-scarf")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if found.ID != product.ID {
		t.Fatalf("slug lookup mismatch")
	}
}

func TestProductCreateDuplicateSlug(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	if _, err := svc.Create(baseProductInput("silk-scarf")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(baseProductInput("silk-scarf")); err != ErrSlugExists {
		t.Fatalf("want ErrSlugExists, got %v", err)
	}
}

func TestProductCreateInvalidPrice(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	input := baseProductInput("free-scarf")
	input.PriceAmount = decimal.Zero
	if _, err := svc.Create(input); err != ErrProductPriceInvalid {
		t.Fatalf("zero price want ErrProductPriceInvalid, got %v", err)
	}

	input = baseProductInput("no-currency")
	input.Currency = ""
	if _, err := svc.Create(input); err != ErrProductPriceInvalid {
		t.Fatalf("empty currency want ErrProductPriceInvalid, got %v", err)
	}
}

func TestProductPublicListingHidesInactive(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	active := baseProductInput("visible-tote")
	if _, err := svc.Create(active); err != nil {
		t.Fatalf("create active failed: %v", err)
	}

	inactive := baseProductInput("hidden-tote")
	off := false
	inactive.IsActive = &off
	if _, err := svc.Create(inactive); err != nil {
		t.Fatalf("create inactive failed: %v", err)
	}

	products, total, err := svc.ListPublic("", "", "", 1, 10)
	if err != nil {
		t.Fatalf("list public failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Slug != "visible-tote" {
		t.Fatalf("public list should only hold active products, got total=%d", total)
	}

	if _, err := svc.GetPublicBySlug("hidden-tote"); err != ErrNotFound {
		t.Fatalf("inactive slug want ErrNotFound, got %v", err)
	}

	_, adminTotal, err := svc.ListAdmin("", "", 1, 10)
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if adminTotal != 2 {
		t.Fatalf("admin list want 2, got %d", adminTotal)
	}
}

func TestProductUpdateReplacesVariants(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	input := baseProductInput("cashmere-wrap")
	input.Variants = []VariantInput{{Name: "Noir", Value: "#1a1a1a"}}
	product, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := baseProductInput("cashmere-wrap")
	update.PriceAmount = decimal.RequireFromString("1899.00")
	update.Variants = []VariantInput{
		{Name: "Camel", Value: "#c19a6b"},
		{Name: "Gris", Value: "#8c8c8c"},
	}
	updated, err := svc.Update(idString(product.ID), update)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := updated.PriceAmount.String(); got != "1899.00" {
		t.Fatalf("price want 1899.00, got %s", got)
	}
	if len(updated.Variants) != 2 {
		t.Fatalf("variants want 2 after replace, got %d", len(updated.Variants))
	}
	for _, v := range updated.Variants {
		if v.Name == "Noir" {
			t.Fatalf("old variant survived replace")
		}
	}
}

func TestProductDelete(t *testing.T) {
	svc, _ := newProductServiceTest(t)

	product, err := svc.Create(baseProductInput("onyx-ring"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(idString(product.ID)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(idString(product.ID)); err != ErrNotFound {
		t.Fatalf("second delete want ErrNotFound, got %v", err)
	}
}
