package cookbook

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Manage recipes",
}

var (
	recipeTitle       string
	recipeServings    int
	recipeNotes       string
	recipeIngredients []string
	recipeJSON        bool
)

var recipeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a recipe",
	Example: `  cookbook recipe add --title Pfannkuchen --servings 2 \
    --ingredient "Mehl=200 g" --ingredient "Milch=1/2 L" --ingredient "Salz=etwas"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		servings := recipeServings
		if !cmd.Flags().Changed("servings") {
			servings = cfg.DefaultServings
		}
		lines := make([]service.RecipeIngredientInput, 0, len(recipeIngredients))
		for _, raw := range recipeIngredients {
			in, err := parseIngredientFlag(raw)
			if err != nil {
				return err
			}
			lines = append(lines, in)
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateRecipe(sqldb, service.RecipeInput{Title: recipeTitle, Servings: servings, Notes: recipeNotes})
			if err != nil {
				return err
			}
			ident := fmt.Sprint(id)
			for _, in := range lines {
				if _, err := service.AddRecipeIngredient(sqldb, ident, in); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %d\n", id)
			return nil
		})
	},
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			recipes, err := service.ListRecipes(sqldb)
			if err != nil {
				return err
			}
			if recipeJSON {
				return writeJSON(cmd.OutOrStdout(), recipes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTITLE\tSERVINGS\tSOURCE")
			for _, r := range recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\n", r.ID, r.Title, r.Servings, r.Source)
			}
			return nil
		})
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <id|uid|title>",
	Short: "Show recipe details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			r, err := service.ResolveRecipe(sqldb, args[0])
			if err != nil {
				return err
			}
			items, err := service.ListRecipeIngredients(sqldb, fmt.Sprint(r.ID))
			if err != nil {
				return err
			}
			if recipeJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"recipe": r, "ingredients": items})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %d\nUID: %s\nTitle: %s\nServings: %d\nSource: %s\nNotes: %s\n", r.ID, r.UID, r.Title, r.Servings, r.Source, r.Notes)
			fmt.Fprintln(out, "Ingredients:")
			for _, it := range items {
				fmt.Fprintf(out, "  %d\t%s\t%s\n", it.ID, it.Amount, it.Name)
			}
			return nil
		})
	},
}

var recipeUpdateCmd = &cobra.Command{
	Use:   "update <id|uid|title>",
	Short: "Update a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			current, err := service.ResolveRecipe(sqldb, args[0])
			if err != nil {
				return err
			}
			in := service.RecipeInput{Title: current.Title, Servings: current.Servings, Notes: current.Notes}
			if cmd.Flags().Changed("title") {
				in.Title = recipeTitle
			}
			if cmd.Flags().Changed("servings") {
				in.Servings = recipeServings
			}
			if cmd.Flags().Changed("notes") {
				in.Notes = recipeNotes
			}
			if err := service.UpdateRecipe(sqldb, fmt.Sprint(current.ID), in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated recipe %q\n", args[0])
			return nil
		})
	},
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <id|uid|title>",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipe(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %q\n", args[0])
			return nil
		})
	},
}

var recipeScaleCmd = &cobra.Command{
	Use:   "scale <id|uid|title>",
	Short: "Show a recipe's ingredients rescaled to --servings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			scaled, err := service.ScaleRecipe(sqldb, args[0], recipeServings)
			if err != nil {
				return err
			}
			if recipeJSON {
				return writeJSON(cmd.OutOrStdout(), scaled)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s for %d (recipe serves %d)\n", scaled.Recipe.Title, scaled.Servings, scaled.Recipe.Servings)
			for _, line := range scaled.Ingredients {
				fmt.Fprintf(out, "  %s\t%s\n", line.Amount, line.Name)
			}
			return nil
		})
	},
}

var recipeIngredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Manage recipe ingredients",
}

var (
	ingredientName   string
	ingredientAmount string
)

var recipeIngredientAddCmd = &cobra.Command{
	Use:   "add <recipe>",
	Short: "Add ingredient to recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddRecipeIngredient(sqldb, args[0], service.RecipeIngredientInput{Name: ingredientName, Amount: ingredientAmount})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added ingredient %d\n", id)
			return nil
		})
	},
}

var recipeIngredientListCmd = &cobra.Command{
	Use:   "list <recipe>",
	Short: "List ingredients for a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListRecipeIngredients(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tAMOUNT")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", it.ID, it.Name, it.Amount)
			}
			return nil
		})
	},
}

var recipeIngredientUpdateCmd = &cobra.Command{
	Use:   "update <ingredient-id>",
	Short: "Update a recipe ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("ingredient id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateRecipeIngredient(sqldb, id, service.RecipeIngredientInput{Name: ingredientName, Amount: ingredientAmount}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated ingredient %d\n", id)
			return nil
		})
	},
}

var recipeIngredientDeleteCmd = &cobra.Command{
	Use:   "delete <ingredient-id>",
	Short: "Delete a recipe ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("ingredient id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipeIngredient(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeAddCmd, recipeListCmd, recipeShowCmd, recipeUpdateCmd, recipeDeleteCmd, recipeScaleCmd, recipeIngredientCmd)
	recipeIngredientCmd.AddCommand(recipeIngredientAddCmd, recipeIngredientListCmd, recipeIngredientUpdateCmd, recipeIngredientDeleteCmd)

	for _, c := range []*cobra.Command{recipeAddCmd, recipeUpdateCmd} {
		c.Flags().StringVar(&recipeTitle, "title", "", "Recipe title")
		c.Flags().IntVar(&recipeServings, "servings", 0, "Servings the amounts are written for")
		c.Flags().StringVar(&recipeNotes, "notes", "", "Notes")
	}
	recipeAddCmd.Flags().StringArrayVar(&recipeIngredients, "ingredient", nil, "Ingredient as name=amount (repeatable)")
	_ = recipeAddCmd.MarkFlagRequired("title")

	recipeScaleCmd.Flags().IntVar(&recipeServings, "servings", 0, "Target servings")
	_ = recipeScaleCmd.MarkFlagRequired("servings")

	for _, c := range []*cobra.Command{recipeListCmd, recipeShowCmd, recipeScaleCmd} {
		c.Flags().BoolVar(&recipeJSON, "json", false, "Output JSON")
	}

	for _, c := range []*cobra.Command{recipeIngredientAddCmd, recipeIngredientUpdateCmd} {
		c.Flags().StringVar(&ingredientName, "name", "", "Ingredient name")
		c.Flags().StringVar(&ingredientAmount, "amount", "", `Free text amount, e.g. "1 1/2 EL" or "etwas"`)
		_ = c.MarkFlagRequired("name")
	}
}
