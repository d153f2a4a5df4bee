package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExistenceProbesUseExists(t *testing.T) {
	for _, query := range []string{workspaceExistsQuery, customerExistsQuery} {
		assert.True(t, strings.HasPrefix(query, "SELECT EXISTS(SELECT 1"), query)
		assert.NotContains(t, strings.ToLower(query), "count(*)", query)
	}
}
