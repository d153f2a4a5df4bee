package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      string
	}{
		{
			name:      "numeric literal masked",
			statement: "SELECT * FROM customer WHERE id = 42",
			want:      "SELECT * FROM customer WHERE id = ?",
		},
		{
			name:      "quoted literal masked",
			statement: "SELECT * FROM customer WHERE name = 'Alice'",
			want:      "SELECT * FROM customer WHERE name = '?'",
		},
		{
			name:      "whitespace collapsed and trimmed",
			statement: "  SELECT *\n\tFROM customer   WHERE id = 7  ",
			want:      "SELECT * FROM customer WHERE id = ?",
		},
		{
			name:      "mixed literals",
			statement: "UPDATE call SET status = 'missed', duration = 120 WHERE id = 99",
			want:      "UPDATE call SET status = '?', duration = ? WHERE id = ?",
		},
		{
			name:      "number embedded in identifier kept",
			statement: "SELECT col1 FROM t2",
			want:      "SELECT col1 FROM t2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePattern(tt.statement))
		})
	}
}

func TestNormalizePatternGroupsParameterVariants(t *testing.T) {
	a := NormalizePattern("SELECT * FROM customer WHERE id = 1")
	b := NormalizePattern("SELECT * FROM customer WHERE id = 123456")
	c := NormalizePattern("SELECT * FROM customer WHERE email = 'x@y.z'")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
