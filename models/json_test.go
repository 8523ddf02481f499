package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbazaar/marketplace-backend/models"
)

func TestJSONList(t *testing.T) {
	values := []string{"go", "postgres", "redis"}
	assert.Equal(t, values, models.ListFromJSON(models.JSONList(values)))

	assert.Equal(t, "[]", string(models.JSONList(nil)))
	assert.Nil(t, models.ListFromJSON(nil))
	assert.Nil(t, models.ListFromJSON([]byte("not json")))
}
