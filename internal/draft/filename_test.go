// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"E-bikes in the city":          "E-bikes_in_the_city.html",
		"What's next? A 2025 guide!":   "Whats_next_A_2025_guide.html",
		"Rowery elektryczne: poradnik": "Rowery_elektryczne_poradnik.html",
		"../../etc/passwd":             "etcpasswd.html",
		"   ":                          "article.html",
	}
	for in, want := range tests {
		assert.Equal(t, want, Filename(in), in)
	}
}
