package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/store"
)

// seedFile is the YAML layout accepted by the seed command. Formulation lines
// reference ingredients by name so fixtures stay readable.
type seedFile struct {
	Ingredients []struct {
		Name           string   `yaml:"name"`
		INCIName       string   `yaml:"inci_name"`
		IngredientType string   `yaml:"ingredient_type"`
		IsHumectant    bool     `yaml:"is_humectant"`
		IsEmollient    bool     `yaml:"is_emollient"`
		IsOcclusive    bool     `yaml:"is_occlusive"`
		IsMoisturizing bool     `yaml:"is_moisturizing"`
		IsAnhydrous    bool     `yaml:"is_anhydrous"`
		PHMin          *float64 `yaml:"ph_min"`
		PHMax          *float64 `yaml:"ph_max"`
		Solubility     string   `yaml:"solubility"`
		MaxUsageRate   *float64 `yaml:"max_usage_rate"`
		Notes          string   `yaml:"notes"`
	} `yaml:"ingredients"`
	Formulations []struct {
		Name          string  `yaml:"name"`
		Description   string  `yaml:"description"`
		BaseBatchSize float64 `yaml:"base_batch_size"`
		Unit          string  `yaml:"unit"`
		Status        string  `yaml:"status"`
		Phases        string  `yaml:"phases"`
		Instructions  string  `yaml:"instructions"`
		Ingredients   []struct {
			Ingredient string  `yaml:"ingredient"`
			Percentage float64 `yaml:"percentage"`
			Phase      string  `yaml:"phase"`
			SortOrder  int     `yaml:"sort_order"`
			Notes      string  `yaml:"notes"`
		} `yaml:"ingredients"`
	} `yaml:"formulations"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load ingredients and formulations from a YAML fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		return seedFromFile(cmd.Context(), st, args[0])
	},
}

func seedFromFile(ctx context.Context, st store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "seed: read fixture")
	}

	var fixture seedFile
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return eris.Wrap(err, "seed: parse fixture")
	}

	ingredientIDs := make(map[string]string, len(fixture.Ingredients))
	for _, in := range fixture.Ingredients {
		created, err := st.CreateIngredient(ctx, model.Ingredient{
			Name:           in.Name,
			INCIName:       in.INCIName,
			IngredientType: in.IngredientType,
			IsHumectant:    in.IsHumectant,
			IsEmollient:    in.IsEmollient,
			IsOcclusive:    in.IsOcclusive,
			IsMoisturizing: in.IsMoisturizing,
			IsAnhydrous:    in.IsAnhydrous,
			PHMin:          in.PHMin,
			PHMax:          in.PHMax,
			Solubility:     in.Solubility,
			MaxUsageRate:   in.MaxUsageRate,
			Notes:          in.Notes,
		})
		if err != nil {
			return eris.Wrapf(err, "seed: ingredient %s", in.Name)
		}
		ingredientIDs[in.Name] = created.ID
	}

	for _, f := range fixture.Formulations {
		lines := make([]model.FormulationLine, 0, len(f.Ingredients))
		for _, l := range f.Ingredients {
			id, ok := ingredientIDs[l.Ingredient]
			if !ok {
				return eris.Errorf("seed: formulation %s references unknown ingredient %s", f.Name, l.Ingredient)
			}
			lines = append(lines, model.FormulationLine{
				IngredientID: id,
				Percentage:   l.Percentage,
				Phase:        l.Phase,
				SortOrder:    l.SortOrder,
				Notes:        l.Notes,
			})
		}

		status := model.FormulationStatus(f.Status)
		if f.Status == "" {
			status = model.StatusTesting
		}
		unit := f.Unit
		if unit == "" {
			unit = "g"
		}

		created, err := st.CreateFormulation(ctx, model.Formulation{
			Name:          f.Name,
			Description:   f.Description,
			BaseBatchSize: f.BaseBatchSize,
			Unit:          unit,
			Status:        status,
			VersionNumber: 1,
			Phases:        f.Phases,
			Instructions:  f.Instructions,
		}, lines)
		if err != nil {
			return eris.Wrapf(err, "seed: formulation %s", f.Name)
		}
		zap.L().Info("seeded formulation",
			zap.String("id", created.ID),
			zap.String("name", f.Name),
			zap.Int("lines", len(lines)))
	}

	zap.L().Info("seed complete",
		zap.Int("ingredients", len(fixture.Ingredients)),
		zap.Int("formulations", len(fixture.Formulations)))
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
