package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// JSONList stores a string slice as a JSON column value.
func JSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// ListFromJSON decodes a JSON column value back into a string slice.
func ListFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}
