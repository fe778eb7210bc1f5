package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSchema(t *testing.T) {
	t.Run("current release columns", func(t *testing.T) {
		cols := []string{
			"Codigo_txt_del_pluviometro",
			"Ubicaci_in",
			"Nombre_del_Pluviometro",
			"Departamento",
			"Provincia",
			"Region_INTA",
			"_id",
		}
		s := ResolveSchema(cols)

		assert.Equal(t, "Codigo_txt_del_pluviometro", s.Code)
		assert.Equal(t, "Ubicaci_in", s.Location)
		assert.Equal(t, "Nombre_del_Pluviometro", s.Name)
		assert.Equal(t, "Departamento", s.Department)
		assert.Equal(t, "Provincia", s.Province)
		assert.Equal(t, "Region_INTA", s.Region)
	})

	t.Run("renamed location column", func(t *testing.T) {
		s := ResolveSchema([]string{"codigo", "_Ubicaci_in"})
		assert.Equal(t, "_Ubicaci_in", s.Location)
	})

	t.Run("missing columns resolve empty", func(t *testing.T) {
		s := ResolveSchema([]string{"codigo", "ubicaci_in"})
		assert.Empty(t, s.Name)
		assert.Empty(t, s.Department)
		assert.Empty(t, s.Province)
		assert.Empty(t, s.Region)
	})

	t.Run("empty column set resolves empty", func(t *testing.T) {
		assert.Equal(t, Schema{}, ResolveSchema(nil))
	})

	t.Run("deterministic pick among multiple matches", func(t *testing.T) {
		a := ResolveSchema([]string{"Region_B", "Region_A"})
		b := ResolveSchema([]string{"Region_A", "Region_B"})
		assert.Equal(t, a.Region, b.Region)
		assert.Equal(t, "Region_A", a.Region)
	})
}

func TestColumns(t *testing.T) {
	rows := []Row{
		{"a": 1, "b": 2},
		{"b": 3, "c": 4},
	}
	assert.Equal(t, []string{"a", "b", "c"}, Columns(rows))
	assert.Empty(t, Columns(nil))
}
