package commands

import (
	"context"
	"fmt"

	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/services"
	contextutils "civiccare/internal/utils"

	"github.com/spf13/cobra"
)

// defaultCategories is the baseline category set for a fresh deployment.
var defaultCategories = []models.Category{
	{Name: "Potholes", Color: "#e74c3c", Department: "roads"},
	{Name: "Broken Streetlights", Color: "#f39c12", Department: "electrical"},
	{Name: "Garbage Collection", Color: "#27ae60", Department: "sanitation"},
	{Name: "Water Supply", Color: "#3498db", Department: "water"},
	{Name: "Drainage & Sewage", Color: "#16a085", Department: "water"},
	{Name: "Parks & Recreation", Color: "#2ecc71", Department: "parks"},
	{Name: "Other", Color: "#95a5a6", Department: models.DepartmentGeneral},
}

// CategoryCommands returns the category management commands
func CategoryCommands(categoryService *services.CategoryService, logger *observability.Logger) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Category management commands",
		Long: `Category management commands for the civic complaint service.

Available commands:
  list - List all complaint categories
  seed - Insert the default category set`,
	}

	categoryCmd.AddCommand(listCategoriesCmd(categoryService, logger))
	categoryCmd.AddCommand(seedCategoriesCmd(categoryService, logger))

	return categoryCmd
}

// listCategoriesCmd returns the list command
func listCategoriesCmd(categoryService *services.CategoryService, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all complaint categories",
		RunE:  runListCategories(categoryService, logger),
	}
}

// seedCategoriesCmd returns the seed command
func seedCategoriesCmd(categoryService *services.CategoryService, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default category set",
		Long:  `Insert the default complaint categories. Categories that already exist are skipped.`,
		RunE:  runSeedCategories(categoryService, logger),
	}
}

// runListCategories returns a function that lists all categories
func runListCategories(categoryService *services.CategoryService, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		categories, err := categoryService.ListCategories(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to list categories", err, map[string]interface{}{})
			return contextutils.WrapError(err, "failed to list categories")
		}

		if len(categories) == 0 {
			logger.Info(ctx, "No categories found", nil)
			return nil
		}

		fmt.Printf("%-38s %-25s %-10s %-15s\n", "ID", "Name", "Color", "Department")
		for _, category := range categories {
			fmt.Printf("%-38s %-25s %-10s %-15s\n", category.ID, category.Name, category.Color, category.Department)
		}

		logger.Info(ctx, "Listed categories", map[string]interface{}{"total": len(categories)})
		return nil
	}
}

// runSeedCategories returns a function that inserts the default categories
func runSeedCategories(categoryService *services.CategoryService, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		created := 0
		skipped := 0
		for i := range defaultCategories {
			category := defaultCategories[i]
			if _, err := categoryService.CreateCategory(ctx, &category); err != nil {
				if contextutils.IsError(err, contextutils.ErrRecordExists) {
					skipped++
					continue
				}
				logger.Error(ctx, "Failed to seed category", err, map[string]interface{}{"name": category.Name})
				return contextutils.WrapErrorf(err, "failed to seed category '%s'", category.Name)
			}
			created++
		}

		fmt.Printf("Seeded categories: %d created, %d already present\n", created, skipped)
		logger.Info(ctx, "Category seed completed", map[string]interface{}{"created": created, "skipped": skipped})
		return nil
	}
}
