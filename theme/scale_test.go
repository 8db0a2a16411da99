package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateScale(t *testing.T) {
	tests := []struct {
		name  string
		label string
		steps []int
		want  Scale
	}{
		{
			name:  "empty",
			label: "brand",
			steps: nil,
			want:  Scale{},
		},
		{
			name:  "gap",
			label: "gap",
			steps: []int{1, 2, 3, 4, 5},
			want: Scale{
				"1": "var(--gap-1)",
				"2": "var(--gap-2)",
				"3": "var(--gap-3)",
				"4": "var(--gap-4)",
				"5": "var(--gap-5)",
			},
		},
		{
			name:  "body",
			label: "body",
			steps: []int{100, 200},
			want:  Scale{"100": "var(--body-100)", "200": "var(--body-200)"},
		},
		{
			name:  "duplicates collapse",
			label: "x",
			steps: []int{1, 1},
			want:  Scale{"1": "var(--x-1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateScale(tt.label, tt.steps...)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateScaleStringSteps(t *testing.T) {
	got := GenerateScale("space", "sm", "md", "sm")
	assert.Equal(t, Scale{"sm": "var(--space-sm)", "md": "var(--space-md)"}, got)
}

func TestGenerateScaleFloatSteps(t *testing.T) {
	assert.Equal(t, Scale{
		"0.5": "var(--space-0.5)",
		"1.5": "var(--space-1.5)",
		"2":   "var(--space-2)",
	}, GenerateScale("space", 0.5, 1.5, 2.0))
}

func TestGenerateScaleProperties(t *testing.T) {
	steps := []int{900, 100, 500, 100, 300}
	first := GenerateScale("text", steps...)
	second := GenerateScale("text", steps...)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
	for _, step := range []string{"100", "300", "500", "900"} {
		assert.Equal(t, "var(--text-"+step+")", first[step])
	}
}

func TestGenerateScaleDoesNotSanitizeLabel(t *testing.T) {
	got := GenerateScale("not a name", 1)
	assert.Equal(t, "var(--not a name-1)", got["1"])
}

func TestScaleKeysNaturalOrder(t *testing.T) {
	s := GenerateScale("gap", 10, 2, 1)
	assert.Equal(t, []string{"1", "2", "10"}, s.Keys())
	assert.Empty(t, Scale{}.Keys())
}
