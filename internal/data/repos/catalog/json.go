package catalog

import "gorm.io/datatypes"

func emptyObject() datatypes.JSON {
	return datatypes.JSON([]byte("{}"))
}
