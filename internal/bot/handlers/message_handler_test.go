package handlers

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Сколько стоят розы?",
			expected: "Сколько стоят розы?",
		},
		{
			name:     "unbalanced asterisk",
			input:    "нужен букет *срочно",
			expected: "нужен букет \\*срочно",
		},
		{
			name:     "underscored username",
			input:    "@flower_shop_kz",
			expected: "@flower\\_shop\\_kz",
		},
		{
			name:     "backtick and bracket",
			input:    "цена `1500 [тенге",
			expected: "цена \\`1500 \\[тенге",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := escapeMarkdown(tc.input); got != tc.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
